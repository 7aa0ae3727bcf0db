package db

import (
	"context"

	"github.com/shelfstack/shelfstack/internal/model"
)

// NewStoreMock creates a new StoreMock instance.
func NewStoreMock(options ...StoreMockOption) *StoreMock {
	mock := &StoreMock{}

	for _, option := range options {
		option(mock)
	}

	return mock
}

// StoreMockOption is a function type that may configure a StoreMock instance.
type StoreMockOption func(*StoreMock)

// WithUsers configures a StoreMock instance to execute the passed function
// when Users is called.
func WithUsers(fn usersFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.users = fn }
}

// WithUser configures a StoreMock instance to execute the passed function
// when User is called.
func WithUser(fn userFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.user = fn }
}

// WithUserByEmail configures a StoreMock instance to execute the passed
// function when UserByEmail is called.
func WithUserByEmail(fn userByEmailFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.userByEmail = fn }
}

// WithCreateUser configures a StoreMock instance to execute the passed
// function when CreateUser is called.
func WithCreateUser(fn createUserFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.createUser = fn }
}

// WithChangeUserPassword configures a StoreMock instance to execute the
// passed function when ChangeUserPassword is called.
func WithChangeUserPassword(fn changeUserPasswordFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.changeUserPassword = fn }
}

// WithProducts configures a StoreMock instance to execute the passed function
// when Products is called.
func WithProducts(fn productsFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.products = fn }
}

// WithProduct configures a StoreMock instance to execute the passed function
// when Product is called.
func WithProduct(fn productFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.product = fn }
}

// WithUserProducts configures a StoreMock instance to execute the passed
// function when UserProducts is called.
func WithUserProducts(fn userProductsFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.userProducts = fn }
}

// WithUserProduct configures a StoreMock instance to execute the passed
// function when UserProduct is called.
func WithUserProduct(fn userProductFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.userProduct = fn }
}

// WithTodos configures a StoreMock instance to execute the passed function
// when Todos is called.
func WithTodos(fn todosFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.todos = fn }
}

// WithTodo configures a StoreMock instance to execute the passed function
// when Todo is called.
func WithTodo(fn todoFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.todo = fn }
}

// WithCreateTodo configures a StoreMock instance to execute the passed
// function when CreateTodo is called.
func WithCreateTodo(fn createTodoFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.createTodo = fn }
}

// WithUpdateTodo configures a StoreMock instance to execute the passed
// function when UpdateTodo is called.
func WithUpdateTodo(fn updateTodoFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.updateTodo = fn }
}

// WithDeleteTodo configures a StoreMock instance to execute the passed
// function when DeleteTodo is called.
func WithDeleteTodo(fn deleteTodoFunc) StoreMockOption {
	return func(mock *StoreMock) { mock.deleteTodo = fn }
}

type (
	usersFunc              func(context.Context) ([]model.User, error)
	userFunc               func(context.Context, int32) (*model.User, error)
	userByEmailFunc        func(context.Context, string) (*model.User, error)
	createUserFunc         func(context.Context, *model.User) error
	changeUserPasswordFunc func(context.Context, int32, func(string) error, string) (*model.User, error)
	productsFunc           func(context.Context) ([]model.Product, error)
	productFunc            func(context.Context, int32) (*model.Product, error)
	userProductsFunc       func(context.Context) ([]model.UserProduct, error)
	userProductFunc        func(context.Context, int32) (*model.UserProduct, error)
	todosFunc              func(context.Context) ([]model.Todo, error)
	todoFunc               func(context.Context, int32) (*model.Todo, error)
	createTodoFunc         func(context.Context, *model.Todo) error
	updateTodoFunc         func(context.Context, int32, *string, *bool) (*model.Todo, error)
	deleteTodoFunc         func(context.Context, int32) (*model.Todo, error)
)

// StoreMock mocks the Store type. Each method panics unless configured via
// its StoreMockOption; tests only wire the calls they expect.
type StoreMock struct {
	users              usersFunc
	user               userFunc
	userByEmail        userByEmailFunc
	createUser         createUserFunc
	changeUserPassword changeUserPasswordFunc
	products           productsFunc
	product            productFunc
	userProducts       userProductsFunc
	userProduct        userProductFunc
	todos              todosFunc
	todo               todoFunc
	createTodo         createTodoFunc
	updateTodo         updateTodoFunc
	deleteTodo         deleteTodoFunc
}

func (m StoreMock) Users(ctx context.Context) ([]model.User, error) {
	if m.users == nil {
		panic("StoreMock.Users is not configured")
	}
	return m.users(ctx)
}

func (m StoreMock) User(ctx context.Context, id int32) (*model.User, error) {
	if m.user == nil {
		panic("StoreMock.User is not configured")
	}
	return m.user(ctx, id)
}

func (m StoreMock) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.userByEmail == nil {
		panic("StoreMock.UserByEmail is not configured")
	}
	return m.userByEmail(ctx, email)
}

func (m StoreMock) CreateUser(ctx context.Context, user *model.User) error {
	if m.createUser == nil {
		panic("StoreMock.CreateUser is not configured")
	}
	return m.createUser(ctx, user)
}

func (m StoreMock) ChangeUserPassword(
	ctx context.Context,
	id int32,
	verify func(string) error,
	newHash string,
) (*model.User, error) {
	if m.changeUserPassword == nil {
		panic("StoreMock.ChangeUserPassword is not configured")
	}
	return m.changeUserPassword(ctx, id, verify, newHash)
}

func (m StoreMock) Products(ctx context.Context) ([]model.Product, error) {
	if m.products == nil {
		panic("StoreMock.Products is not configured")
	}
	return m.products(ctx)
}

func (m StoreMock) Product(ctx context.Context, id int32) (*model.Product, error) {
	if m.product == nil {
		panic("StoreMock.Product is not configured")
	}
	return m.product(ctx, id)
}

func (m StoreMock) UserProducts(ctx context.Context) ([]model.UserProduct, error) {
	if m.userProducts == nil {
		panic("StoreMock.UserProducts is not configured")
	}
	return m.userProducts(ctx)
}

func (m StoreMock) UserProduct(ctx context.Context, id int32) (*model.UserProduct, error) {
	if m.userProduct == nil {
		panic("StoreMock.UserProduct is not configured")
	}
	return m.userProduct(ctx, id)
}

func (m StoreMock) Todos(ctx context.Context) ([]model.Todo, error) {
	if m.todos == nil {
		panic("StoreMock.Todos is not configured")
	}
	return m.todos(ctx)
}

func (m StoreMock) Todo(ctx context.Context, id int32) (*model.Todo, error) {
	if m.todo == nil {
		panic("StoreMock.Todo is not configured")
	}
	return m.todo(ctx, id)
}

func (m StoreMock) CreateTodo(ctx context.Context, todo *model.Todo) error {
	if m.createTodo == nil {
		panic("StoreMock.CreateTodo is not configured")
	}
	return m.createTodo(ctx, todo)
}

func (m StoreMock) UpdateTodo(
	ctx context.Context,
	id int32,
	label *string,
	checked *bool,
) (*model.Todo, error) {
	if m.updateTodo == nil {
		panic("StoreMock.UpdateTodo is not configured")
	}
	return m.updateTodo(ctx, id, label, checked)
}

func (m StoreMock) DeleteTodo(ctx context.Context, id int32) (*model.Todo, error) {
	if m.deleteTodo == nil {
		panic("StoreMock.DeleteTodo is not configured")
	}
	return m.deleteTodo(ctx, id)
}
