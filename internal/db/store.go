package db

import (
	"context"
	"errors"

	serrors "github.com/shelfstack/shelfstack/internal/errors"
	"github.com/shelfstack/shelfstack/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

const (
	userColumns        = `id, name, email, password_hash, "createdAt", "updatedAt"`
	productColumns     = `id, name, price`
	userProductColumns = `id, "userId", "productId", "quantityOwned"`
	todoColumns        = `id, label, checked, created_at, updated_at`
)

// NewStore creates a Store reading and writing through the passed DB.
func NewStore(logger *zap.Logger, db *DB) *Store {
	return &Store{
		logger: logger,
		db:     db,
	}
}

// Store implements typed access to the shelfstack tables. Every statement
// binds its parameters positionally; SQL text is never built from caller
// input.
type Store struct {
	logger *zap.Logger
	db     *DB
}

// Users retrieves all users.
func (s Store) Users(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM "Users"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// User retrieves the user associated with the passed ID.
func (s Store) User(ctx context.Context, id int32) (*model.User, error) {
	user := new(model.User)
	err := scanUser(
		s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "Users" WHERE id = $1`, id),
		user,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrUserDNE
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByEmail retrieves the user associated with the passed email address.
// The comparison is an exact match; email uniqueness is not normalized for
// case.
func (s Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := new(model.User)
	err := scanUser(
		s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "Users" WHERE email = $1`, email),
		user,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrUserDNE
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts the passed user and fills its server-assigned fields.
func (s Store) CreateUser(ctx context.Context, user *model.User) error {
	err := s.db.QueryRow(
		ctx,
		`INSERT INTO "Users" (name, email, password_hash, "createdAt", "updatedAt")
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING id, "createdAt", "updatedAt"`,
		user.Name, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return serrors.ErrEmailAlreadyInUse
	}
	return err
}

// ChangeUserPassword replaces a user's password hash after the passed verify
// function accepts the stored hash. The read, verification, and write happen
// inside one transaction with the row locked, so a concurrent change cannot
// pass verification against a hash that is about to be replaced.
func (s Store) ChangeUserPassword(
	ctx context.Context,
	id int32,
	verify func(storedHash string) error,
	newHash string,
) (*model.User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var storedHash string
	err = tx.QueryRow(
		ctx,
		`SELECT password_hash FROM "Users" WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&storedHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrUserDNE
	}
	if err != nil {
		return nil, err
	}

	if err := verify(storedHash); err != nil {
		return nil, err
	}

	user := new(model.User)
	err = scanUser(
		tx.QueryRow(
			ctx,
			`UPDATE "Users" SET password_hash = $1, "updatedAt" = NOW()
			 WHERE id = $2
			 RETURNING `+userColumns,
			newHash, id,
		),
		user,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Products retrieves all products.
func (s Store) Products(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.Query(ctx, `SELECT `+productColumns+` FROM "Products"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var product model.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// Product retrieves the product associated with the passed ID.
func (s Store) Product(ctx context.Context, id int32) (*model.Product, error) {
	product := new(model.Product)
	err := s.db.QueryRow(
		ctx,
		`SELECT `+productColumns+` FROM "Products" WHERE id = $1`,
		id,
	).Scan(&product.ID, &product.Name, &product.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrProductDNE
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UserProducts retrieves all user-product associations.
func (s Store) UserProducts(ctx context.Context) ([]model.UserProduct, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userProductColumns+` FROM "UserProducts"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userProducts []model.UserProduct
	for rows.Next() {
		var up model.UserProduct
		if err := rows.Scan(&up.ID, &up.UserID, &up.ProductID, &up.QuantityOwned); err != nil {
			return nil, err
		}
		userProducts = append(userProducts, up)
	}
	return userProducts, rows.Err()
}

// UserProduct retrieves the user-product association with the passed ID.
func (s Store) UserProduct(ctx context.Context, id int32) (*model.UserProduct, error) {
	up := new(model.UserProduct)
	err := s.db.QueryRow(
		ctx,
		`SELECT `+userProductColumns+` FROM "UserProducts" WHERE id = $1`,
		id,
	).Scan(&up.ID, &up.UserID, &up.ProductID, &up.QuantityOwned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrUserProductDNE
	}
	if err != nil {
		return nil, err
	}
	return up, nil
}

// Todos retrieves all todos in ascending creation order.
func (s Store) Todos(ctx context.Context) ([]model.Todo, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT `+todoColumns+` FROM "Todos" ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var todo model.Todo
		if err := scanTodo(rows, &todo); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// Todo retrieves the todo associated with the passed ID.
func (s Store) Todo(ctx context.Context, id int32) (*model.Todo, error) {
	todo := new(model.Todo)
	err := scanTodo(
		s.db.QueryRow(ctx, `SELECT `+todoColumns+` FROM "Todos" WHERE id = $1`, id),
		todo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrTodoDNE
	}
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// CreateTodo inserts the passed todo and fills its server-assigned fields.
func (s Store) CreateTodo(ctx context.Context, todo *model.Todo) error {
	return s.db.QueryRow(
		ctx,
		`INSERT INTO "Todos" (label, checked, created_at, updated_at)
		 VALUES ($1, $2, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		todo.Label, todo.Checked,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
}

// UpdateTodo applies the non-nil fields of the passed change set and returns
// the post-image. clock_timestamp() is used so the updated timestamp moves
// even within a surrounding transaction.
func (s Store) UpdateTodo(
	ctx context.Context,
	id int32,
	label *string,
	checked *bool,
) (*model.Todo, error) {
	todo := new(model.Todo)
	err := scanTodo(
		s.db.QueryRow(
			ctx,
			`UPDATE "Todos"
			 SET label = COALESCE($1, label),
			     checked = COALESCE($2, checked),
			     updated_at = clock_timestamp()
			 WHERE id = $3
			 RETURNING `+todoColumns,
			label, checked, id,
		),
		todo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrTodoDNE
	}
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// DeleteTodo removes the todo associated with the passed ID and returns its
// pre-image. The returned row no longer exists for subsequent reads.
func (s Store) DeleteTodo(ctx context.Context, id int32) (*model.Todo, error) {
	todo := new(model.Todo)
	err := scanTodo(
		s.db.QueryRow(
			ctx,
			`DELETE FROM "Todos" WHERE id = $1 RETURNING `+todoColumns,
			id,
		),
		todo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, serrors.ErrTodoDNE
	}
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func scanUser(row pgx.Row, user *model.User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func scanTodo(row pgx.Row, todo *model.Todo) error {
	return row.Scan(
		&todo.ID,
		&todo.Label,
		&todo.Checked,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
}
