package graph

import (
	"context"
	"errors"
	"strconv"

	"github.com/shelfstack/shelfstack/internal/controller"
	serrors "github.com/shelfstack/shelfstack/internal/errors"
	"github.com/shelfstack/shelfstack/internal/model"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

var (
	errInternalServer = errors.New("internal server error; please contact support")
	errInvalidID      = errors.New("invalid id")
)

// IController represents the API by which the resolver layer may read and
// mutate the shelfstack entities.
type IController interface {
	Users(context.Context) ([]model.User, error)
	User(context.Context, int32) (*model.User, error)
	Products(context.Context) ([]model.Product, error)
	Product(context.Context, int32) (*model.Product, error)
	UserProducts(context.Context) ([]model.UserProduct, error)
	UserProduct(context.Context, int32) (*model.UserProduct, error)
	Todos(context.Context) ([]model.Todo, error)
	Todo(context.Context, int32) (*model.Todo, error)

	CreateUser(context.Context, controller.CreateUserInput) (*model.User, error)
	LoginUser(context.Context, controller.LoginUserInput) (*controller.LoginUserOutput, error)
	UpdateUserPassword(context.Context, controller.UpdateUserPasswordInput) (*model.User, error)

	CreateTodo(context.Context, controller.CreateTodoInput) (*model.Todo, error)
	UpdateTodo(context.Context, controller.UpdateTodoInput) (*model.Todo, error)
	DeleteTodo(context.Context, int32) (*model.Todo, error)
}

// NewSchema parses Schema against a new Resolver. A mismatch between the
// declaration and the resolver methods is an error here, at startup, not at
// call time.
func NewSchema(logger *zap.Logger, ctrl IController) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, NewResolver(logger, ctrl))
}

// NewResolver creates a Resolver reading and mutating through the passed
// controller.
func NewResolver(logger *zap.Logger, ctrl IController) *Resolver {
	return &Resolver{
		logger: logger,
		ctrl:   ctrl,
	}
}

// Resolver resolves graphql queries and mutations.
type Resolver struct {
	logger *zap.Logger
	ctrl   IController
}

func (r *Resolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := r.ctrl.Users(ctx)
	if err != nil {
		r.logger.Error("error listing users", zap.Error(err))
		return nil, errInternalServer
	}

	resolvers := make([]*userResolver, 0, len(users))
	for _, user := range users {
		resolvers = append(resolvers, &userResolver{user: user})
	}
	return resolvers, nil
}

func (r *Resolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*userResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	user, err := r.ctrl.User(ctx, id)
	if errors.Is(err, serrors.ErrUserDNE) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("error retrieving user", zap.Error(err))
		return nil, errInternalServer
	}
	return &userResolver{user: *user}, nil
}

func (r *Resolver) Products(ctx context.Context) ([]*productResolver, error) {
	products, err := r.ctrl.Products(ctx)
	if err != nil {
		r.logger.Error("error listing products", zap.Error(err))
		return nil, errInternalServer
	}

	resolvers := make([]*productResolver, 0, len(products))
	for _, product := range products {
		resolvers = append(resolvers, &productResolver{product: product})
	}
	return resolvers, nil
}

func (r *Resolver) Product(ctx context.Context, args struct{ ID graphql.ID }) (*productResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	product, err := r.ctrl.Product(ctx, id)
	if errors.Is(err, serrors.ErrProductDNE) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("error retrieving product", zap.Error(err))
		return nil, errInternalServer
	}
	return &productResolver{product: *product}, nil
}

func (r *Resolver) UserProducts(ctx context.Context) ([]*userProductResolver, error) {
	userProducts, err := r.ctrl.UserProducts(ctx)
	if err != nil {
		r.logger.Error("error listing user products", zap.Error(err))
		return nil, errInternalServer
	}

	resolvers := make([]*userProductResolver, 0, len(userProducts))
	for _, up := range userProducts {
		resolvers = append(resolvers, &userProductResolver{resolver: r, userProduct: up})
	}
	return resolvers, nil
}

func (r *Resolver) UserProduct(ctx context.Context, args struct{ ID graphql.ID }) (*userProductResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	up, err := r.ctrl.UserProduct(ctx, id)
	if errors.Is(err, serrors.ErrUserProductDNE) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("error retrieving user product", zap.Error(err))
		return nil, errInternalServer
	}
	return &userProductResolver{resolver: r, userProduct: *up}, nil
}

func (r *Resolver) Todos(ctx context.Context) ([]*todoResolver, error) {
	todos, err := r.ctrl.Todos(ctx)
	if err != nil {
		r.logger.Error("error listing todos", zap.Error(err))
		return nil, errInternalServer
	}

	resolvers := make([]*todoResolver, 0, len(todos))
	for _, todo := range todos {
		resolvers = append(resolvers, &todoResolver{todo: todo})
	}
	return resolvers, nil
}

func (r *Resolver) Todo(ctx context.Context, args struct{ ID graphql.ID }) (*todoResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	todo, err := r.ctrl.Todo(ctx, id)
	if errors.Is(err, serrors.ErrTodoDNE) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("error retrieving todo", zap.Error(err))
		return nil, errInternalServer
	}
	return &todoResolver{todo: *todo}, nil
}

func (r *Resolver) Login(
	ctx context.Context,
	args struct{ Email, Password string },
) (*authPayloadResolver, error) {
	out, err := r.ctrl.LoginUser(
		ctx,
		controller.LoginUserInput{Email: args.Email, Password: args.Password},
	)
	if errors.Is(err, serrors.ErrInvalidCredentials) {
		return nil, err
	}
	if emailErr := serrors.AsEmailError(err); emailErr != nil {
		return nil, emailErr
	}
	if passwordErr := serrors.AsPasswordError(err); passwordErr != nil {
		return nil, passwordErr
	}
	if err != nil {
		r.logger.Error("error logging-in user", zap.Error(err))
		return nil, errInternalServer
	}

	return &authPayloadResolver{token: out.Token, user: out.User}, nil
}

func (r *Resolver) AddUser(
	ctx context.Context,
	args struct{ Name, Email, Password string },
) (*userResolver, error) {
	user, err := r.ctrl.CreateUser(
		ctx,
		controller.CreateUserInput{
			Name:     args.Name,
			Email:    args.Email,
			Password: args.Password,
		},
	)
	if emailErr := serrors.AsEmailError(err); emailErr != nil {
		return nil, emailErr
	}
	if passwordErr := serrors.AsPasswordError(err); passwordErr != nil {
		return nil, passwordErr
	}
	if validationErr := serrors.AsValidationError(err); validationErr != nil {
		return nil, validationErr
	}
	if errors.Is(err, serrors.ErrEmailAlreadyInUse) {
		return nil, err
	}
	if err != nil {
		r.logger.Error("error creating user", zap.Error(err))
		return nil, errInternalServer
	}

	return &userResolver{user: *user}, nil
}

func (r *Resolver) UpdatePassword(
	ctx context.Context,
	args struct {
		UserID          graphql.ID
		CurrentPassword string
		NewPassword     string
	},
) (*userResolver, error) {
	id, err := parseID(args.UserID)
	if err != nil {
		return nil, err
	}

	user, err := r.ctrl.UpdateUserPassword(
		ctx,
		controller.UpdateUserPasswordInput{
			ID:              id,
			CurrentPassword: args.CurrentPassword,
			NewPassword:     args.NewPassword,
		},
	)
	// An unknown user and a wrong current password are indistinguishable to
	// the client.
	if errors.Is(err, serrors.ErrUserDNE) || errors.Is(err, serrors.ErrInvalidCredentials) {
		return nil, serrors.ErrInvalidCredentials
	}
	if passwordErr := serrors.AsPasswordError(err); passwordErr != nil {
		return nil, passwordErr
	}
	if err != nil {
		r.logger.Error("error updating user password", zap.Error(err))
		return nil, errInternalServer
	}

	return &userResolver{user: *user}, nil
}

func (r *Resolver) AddTodo(
	ctx context.Context,
	args struct{ Label string },
) (*todoResolver, error) {
	todo, err := r.ctrl.CreateTodo(ctx, controller.CreateTodoInput{Label: args.Label})
	if validationErr := serrors.AsValidationError(err); validationErr != nil {
		return nil, validationErr
	}
	if err != nil {
		r.logger.Error("error creating todo", zap.Error(err))
		return nil, errInternalServer
	}
	return &todoResolver{todo: *todo}, nil
}

func (r *Resolver) UpdateTodo(
	ctx context.Context,
	args struct {
		ID      graphql.ID
		Label   *string
		Checked *bool
	},
) (*todoResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	todo, err := r.ctrl.UpdateTodo(
		ctx,
		controller.UpdateTodoInput{ID: id, Label: args.Label, Checked: args.Checked},
	)
	if errors.Is(err, serrors.ErrTodoDNE) {
		return nil, err
	}
	if err != nil {
		r.logger.Error("error updating todo", zap.Error(err))
		return nil, errInternalServer
	}
	return &todoResolver{todo: *todo}, nil
}

func (r *Resolver) DeleteTodo(
	ctx context.Context,
	args struct{ ID graphql.ID },
) (*todoResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	// The returned pre-image is the caller's last look at the row; it is gone
	// from subsequent reads.
	todo, err := r.ctrl.DeleteTodo(ctx, id)
	if errors.Is(err, serrors.ErrTodoDNE) {
		return nil, err
	}
	if err != nil {
		r.logger.Error("error deleting todo", zap.Error(err))
		return nil, errInternalServer
	}
	return &todoResolver{todo: *todo}, nil
}

// --- helpers ---

func parseID(id graphql.ID) (int32, error) {
	n, err := strconv.ParseInt(string(id), 10, 32)
	if err != nil {
		return 0, errInvalidID
	}
	return int32(n), nil
}

func formatID(id int32) graphql.ID {
	return graphql.ID(strconv.FormatInt(int64(id), 10))
}
