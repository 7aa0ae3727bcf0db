// Package controller implements shelfstack's domain operations. All
// interactions with the persisted entities occur through the Controller.
package controller

import (
	"context"
	"errors"

	serrors "github.com/shelfstack/shelfstack/internal/errors"
	"github.com/shelfstack/shelfstack/internal/model"

	"github.com/go-playground/validator/v10"
)

// IStore represents the API by which the Controller reads and writes
// persisted entities.
type IStore interface {
	Users(context.Context) ([]model.User, error)
	User(context.Context, int32) (*model.User, error)
	UserByEmail(context.Context, string) (*model.User, error)
	CreateUser(context.Context, *model.User) error
	ChangeUserPassword(context.Context, int32, func(string) error, string) (*model.User, error)

	Products(context.Context) ([]model.Product, error)
	Product(context.Context, int32) (*model.Product, error)

	UserProducts(context.Context) ([]model.UserProduct, error)
	UserProduct(context.Context, int32) (*model.UserProduct, error)

	Todos(context.Context) ([]model.Todo, error)
	Todo(context.Context, int32) (*model.Todo, error)
	CreateTodo(context.Context, *model.Todo) error
	UpdateTodo(context.Context, int32, *string, *bool) (*model.Todo, error)
	DeleteTodo(context.Context, int32) (*model.Todo, error)
}

// ICredentials represents the API by which the Controller hashes and
// verifies passwords and issues session tokens.
type ICredentials interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	IssueToken(id int32, email, name string) (string, error)
}

// New creates a Controller over the passed store and credentials service.
func New(store IStore, credentials ICredentials) *Controller {
	return &Controller{
		store:       store,
		credentials: credentials,
		validate:    validator.New(),
	}
}

// Controller is responsible for interactions with shelfstack's entities.
type Controller struct {
	store       IStore
	credentials ICredentials
	validate    *validator.Validate
}

// CreateUserInput is the input for the Controller.CreateUser method.
type CreateUserInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=64"`
}

// CreateUser creates a new model.User with a salted hash of the passed
// password. The plaintext is never stored.
func (ctrl Controller) CreateUser(
	ctx context.Context,
	input CreateUserInput,
) (*model.User, error) {
	if err := ctrl.validateInput(input); err != nil {
		return nil, err
	}

	hash, err := ctrl.credentials.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := ctrl.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginUserInput is the input for the Controller.LoginUser method.
type LoginUserInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginUserOutput is the output for the Controller.LoginUser method.
type LoginUserOutput struct {
	Token string
	User  model.User
}

// LoginUser ensures the passed credentials are valid. On success a signed
// session token and the logged-in user are returned. An unknown email and a
// wrong password both surface ErrInvalidCredentials; responses never reveal
// which accounts exist.
func (ctrl Controller) LoginUser(
	ctx context.Context,
	input LoginUserInput,
) (*LoginUserOutput, error) {
	if err := ctrl.validateInput(input); err != nil {
		return nil, err
	}

	user, err := ctrl.store.UserByEmail(ctx, input.Email)
	if errors.Is(err, serrors.ErrUserDNE) {
		return nil, serrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !ctrl.credentials.Verify(input.Password, user.PasswordHash) {
		return nil, serrors.ErrInvalidCredentials
	}

	token, err := ctrl.credentials.IssueToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	return &LoginUserOutput{Token: token, User: *user}, nil
}

// UpdateUserPasswordInput is the input for the Controller.UpdateUserPassword
// method.
type UpdateUserPasswordInput struct {
	ID              int32
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=8,max=64"`
}

// UpdateUserPassword replaces the user's password after verifying the
// current one. Verification and the write are a single transaction in the
// store; a wrong current password leaves the stored hash untouched.
func (ctrl Controller) UpdateUserPassword(
	ctx context.Context,
	input UpdateUserPasswordInput,
) (*model.User, error) {
	if err := ctrl.validateInput(input); err != nil {
		return nil, err
	}

	// Hash before entering the transaction; hashing is deliberately slow and
	// must not extend the row lock.
	newHash, err := ctrl.credentials.Hash(input.NewPassword)
	if err != nil {
		return nil, err
	}

	return ctrl.store.ChangeUserPassword(
		ctx,
		input.ID,
		func(storedHash string) error {
			if !ctrl.credentials.Verify(input.CurrentPassword, storedHash) {
				return serrors.ErrInvalidCredentials
			}
			return nil
		},
		newHash,
	)
}

// Users retrieves all users.
func (ctrl Controller) Users(ctx context.Context) ([]model.User, error) {
	return ctrl.store.Users(ctx)
}

// User retrieves the user associated with the passed ID.
func (ctrl Controller) User(ctx context.Context, id int32) (*model.User, error) {
	return ctrl.store.User(ctx, id)
}

// Products retrieves all products.
func (ctrl Controller) Products(ctx context.Context) ([]model.Product, error) {
	return ctrl.store.Products(ctx)
}

// Product retrieves the product associated with the passed ID.
func (ctrl Controller) Product(ctx context.Context, id int32) (*model.Product, error) {
	return ctrl.store.Product(ctx, id)
}

// UserProducts retrieves all user-product associations.
func (ctrl Controller) UserProducts(ctx context.Context) ([]model.UserProduct, error) {
	return ctrl.store.UserProducts(ctx)
}

// UserProduct retrieves the user-product association with the passed ID.
func (ctrl Controller) UserProduct(ctx context.Context, id int32) (*model.UserProduct, error) {
	return ctrl.store.UserProduct(ctx, id)
}

// Todos retrieves all todos in ascending creation order.
func (ctrl Controller) Todos(ctx context.Context) ([]model.Todo, error) {
	return ctrl.store.Todos(ctx)
}

// Todo retrieves the todo associated with the passed ID.
func (ctrl Controller) Todo(ctx context.Context, id int32) (*model.Todo, error) {
	return ctrl.store.Todo(ctx, id)
}

// CreateTodoInput is the input for the Controller.CreateTodo method.
type CreateTodoInput struct {
	Label string `validate:"required"`
}

// CreateTodo creates a new unchecked model.Todo.
func (ctrl Controller) CreateTodo(
	ctx context.Context,
	input CreateTodoInput,
) (*model.Todo, error) {
	if err := ctrl.validateInput(input); err != nil {
		return nil, err
	}

	todo := &model.Todo{Label: input.Label}
	if err := ctrl.store.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// UpdateTodoInput is the input for the Controller.UpdateTodo method. Nil
// fields are left unchanged.
type UpdateTodoInput struct {
	ID      int32
	Label   *string
	Checked *bool
}

// UpdateTodo applies the passed partial change set and returns the
// post-image.
func (ctrl Controller) UpdateTodo(
	ctx context.Context,
	input UpdateTodoInput,
) (*model.Todo, error) {
	return ctrl.store.UpdateTodo(ctx, input.ID, input.Label, input.Checked)
}

// DeleteTodo removes the todo associated with the passed ID and returns its
// pre-image. The row is gone from subsequent reads.
func (ctrl Controller) DeleteTodo(ctx context.Context, id int32) (*model.Todo, error) {
	return ctrl.store.DeleteTodo(ctx, id)
}

// validateInput maps struct validation failures to the domain error matching
// the offending field.
func (ctrl Controller) validateInput(input interface{}) error {
	err := ctrl.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	switch verrs[0].Field() {
	case "Email":
		return serrors.EmailError("malformed address")
	case "Password", "CurrentPassword", "NewPassword":
		return serrors.PasswordError("between 8 and 64 characters required")
	default:
		return serrors.ValidationError(verrs[0].Field() + " is required")
	}
}
