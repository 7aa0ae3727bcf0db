package graph

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shelfstack/shelfstack/internal/controller"
	serrors "github.com/shelfstack/shelfstack/internal/errors"
	"github.com/shelfstack/shelfstack/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// controllerMock implements IController. Unconfigured methods panic so tests
// only ever exercise the fields they set.
type controllerMock struct {
	users              func(context.Context) ([]model.User, error)
	user               func(context.Context, int32) (*model.User, error)
	products           func(context.Context) ([]model.Product, error)
	product            func(context.Context, int32) (*model.Product, error)
	userProducts       func(context.Context) ([]model.UserProduct, error)
	userProduct        func(context.Context, int32) (*model.UserProduct, error)
	todos              func(context.Context) ([]model.Todo, error)
	todo               func(context.Context, int32) (*model.Todo, error)
	createUser         func(context.Context, controller.CreateUserInput) (*model.User, error)
	loginUser          func(context.Context, controller.LoginUserInput) (*controller.LoginUserOutput, error)
	updateUserPassword func(context.Context, controller.UpdateUserPasswordInput) (*model.User, error)
	createTodo         func(context.Context, controller.CreateTodoInput) (*model.Todo, error)
	updateTodo         func(context.Context, controller.UpdateTodoInput) (*model.Todo, error)
	deleteTodo         func(context.Context, int32) (*model.Todo, error)
}

func (m *controllerMock) Users(ctx context.Context) ([]model.User, error) {
	if m.users == nil {
		panic("controllerMock.Users is not configured")
	}
	return m.users(ctx)
}

func (m *controllerMock) User(ctx context.Context, id int32) (*model.User, error) {
	if m.user == nil {
		panic("controllerMock.User is not configured")
	}
	return m.user(ctx, id)
}

func (m *controllerMock) Products(ctx context.Context) ([]model.Product, error) {
	if m.products == nil {
		panic("controllerMock.Products is not configured")
	}
	return m.products(ctx)
}

func (m *controllerMock) Product(ctx context.Context, id int32) (*model.Product, error) {
	if m.product == nil {
		panic("controllerMock.Product is not configured")
	}
	return m.product(ctx, id)
}

func (m *controllerMock) UserProducts(ctx context.Context) ([]model.UserProduct, error) {
	if m.userProducts == nil {
		panic("controllerMock.UserProducts is not configured")
	}
	return m.userProducts(ctx)
}

func (m *controllerMock) UserProduct(ctx context.Context, id int32) (*model.UserProduct, error) {
	if m.userProduct == nil {
		panic("controllerMock.UserProduct is not configured")
	}
	return m.userProduct(ctx, id)
}

func (m *controllerMock) Todos(ctx context.Context) ([]model.Todo, error) {
	if m.todos == nil {
		panic("controllerMock.Todos is not configured")
	}
	return m.todos(ctx)
}

func (m *controllerMock) Todo(ctx context.Context, id int32) (*model.Todo, error) {
	if m.todo == nil {
		panic("controllerMock.Todo is not configured")
	}
	return m.todo(ctx, id)
}

func (m *controllerMock) CreateUser(
	ctx context.Context,
	input controller.CreateUserInput,
) (*model.User, error) {
	if m.createUser == nil {
		panic("controllerMock.CreateUser is not configured")
	}
	return m.createUser(ctx, input)
}

func (m *controllerMock) LoginUser(
	ctx context.Context,
	input controller.LoginUserInput,
) (*controller.LoginUserOutput, error) {
	if m.loginUser == nil {
		panic("controllerMock.LoginUser is not configured")
	}
	return m.loginUser(ctx, input)
}

func (m *controllerMock) UpdateUserPassword(
	ctx context.Context,
	input controller.UpdateUserPasswordInput,
) (*model.User, error) {
	if m.updateUserPassword == nil {
		panic("controllerMock.UpdateUserPassword is not configured")
	}
	return m.updateUserPassword(ctx, input)
}

func (m *controllerMock) CreateTodo(
	ctx context.Context,
	input controller.CreateTodoInput,
) (*model.Todo, error) {
	if m.createTodo == nil {
		panic("controllerMock.CreateTodo is not configured")
	}
	return m.createTodo(ctx, input)
}

func (m *controllerMock) UpdateTodo(
	ctx context.Context,
	input controller.UpdateTodoInput,
) (*model.Todo, error) {
	if m.updateTodo == nil {
		panic("controllerMock.UpdateTodo is not configured")
	}
	return m.updateTodo(ctx, input)
}

func (m *controllerMock) DeleteTodo(ctx context.Context, id int32) (*model.Todo, error) {
	if m.deleteTodo == nil {
		panic("controllerMock.DeleteTodo is not configured")
	}
	return m.deleteTodo(ctx, id)
}

func exec(t *testing.T, ctrl IController, query string) map[string]interface{} {
	t.Helper()

	schema, err := NewSchema(zap.NewNop(), ctrl)
	require.Nil(t, err)

	resp := schema.Exec(context.Background(), query, "", nil)
	require.Empty(t, resp.Errors)

	var data map[string]interface{}
	require.Nil(t, json.Unmarshal(resp.Data, &data))
	return data
}

// TestNewSchema ensures the declaration and the resolver methods agree; a
// drift between the two fails here rather than on the first request.
func TestNewSchema(t *testing.T) {
	_, err := NewSchema(zap.NewNop(), &controllerMock{})
	require.Nil(t, err)
}

func TestQueryUsers(t *testing.T) {
	ctrl := &controllerMock{
		users: func(context.Context) ([]model.User, error) {
			return []model.User{
				{ID: 1, Name: "Stanley", Email: "stanley@rustpm.com"},
				{ID: 2, Name: "Mila", Email: "mila@rustpm.com"},
			}, nil
		},
	}

	data := exec(t, ctrl, `{ users { id name email } }`)
	require.Equal(
		t,
		[]interface{}{
			map[string]interface{}{"id": "1", "name": "Stanley", "email": "stanley@rustpm.com"},
			map[string]interface{}{"id": "2", "name": "Mila", "email": "mila@rustpm.com"},
		},
		data["users"],
	)
}

func TestQueryUserNotFound(t *testing.T) {
	ctrl := &controllerMock{
		user: func(_ context.Context, id int32) (*model.User, error) {
			return nil, serrors.ErrUserDNE
		},
	}

	// A missing user is null, not an error.
	data := exec(t, ctrl, `{ user(id: "404") { id } }`)
	require.Nil(t, data["user"])
}

func TestMutationLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		ctrl := &controllerMock{
			loginUser: func(
				_ context.Context,
				input controller.LoginUserInput,
			) (*controller.LoginUserOutput, error) {
				require.Equal(t, "stanley@rustpm.com", input.Email)
				require.Equal(t, "1ValidPassword", input.Password)
				return &controller.LoginUserOutput{
					Token: "signed-token",
					User:  model.User{ID: 7, Name: "Stanley", Email: input.Email},
				}, nil
			},
		}

		data := exec(
			t,
			ctrl,
			`mutation { login(email: "stanley@rustpm.com", password: "1ValidPassword") { token user { id name } } }`,
		)
		require.Equal(
			t,
			map[string]interface{}{
				"token": "signed-token",
				"user":  map[string]interface{}{"id": "7", "name": "Stanley"},
			},
			data["login"],
		)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		ctrl := &controllerMock{
			loginUser: func(
				context.Context,
				controller.LoginUserInput,
			) (*controller.LoginUserOutput, error) {
				return nil, serrors.ErrInvalidCredentials
			},
		}

		schema, err := NewSchema(zap.NewNop(), ctrl)
		require.Nil(t, err)

		resp := schema.Exec(
			context.Background(),
			`mutation { login(email: "stanley@rustpm.com", password: "1WrongPassword") { token } }`,
			"",
			nil,
		)
		require.Len(t, resp.Errors, 1)
		require.Contains(t, resp.Errors[0].Error(), serrors.ErrInvalidCredentials.Error())
	})
}

func TestMutationUpdatePassword(t *testing.T) {
	ctrl := &controllerMock{
		updateUserPassword: func(
			_ context.Context,
			input controller.UpdateUserPasswordInput,
		) (*model.User, error) {
			require.Equal(t, int32(7), input.ID)
			require.Equal(t, "1CurrentPassword", input.CurrentPassword)
			require.Equal(t, "1FreshPassword", input.NewPassword)
			return &model.User{ID: 7, Name: "Stanley", Email: "stanley@rustpm.com"}, nil
		},
	}

	data := exec(
		t,
		ctrl,
		`mutation { updatePassword(userId: "7", currentPassword: "1CurrentPassword", newPassword: "1FreshPassword") { id email } }`,
	)
	require.Equal(
		t,
		map[string]interface{}{"id": "7", "email": "stanley@rustpm.com"},
		data["updatePassword"],
	)
}

func TestMutationTodos(t *testing.T) {
	createdAt := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("add", func(t *testing.T) {
		ctrl := &controllerMock{
			createTodo: func(
				_ context.Context,
				input controller.CreateTodoInput,
			) (*model.Todo, error) {
				require.Equal(t, "water the plants", input.Label)
				return &model.Todo{
					ID:        3,
					Label:     input.Label,
					CreatedAt: createdAt,
					UpdatedAt: createdAt,
				}, nil
			},
		}

		data := exec(t, ctrl, `mutation { addTodo(label: "water the plants") { id label checked } }`)
		require.Equal(
			t,
			map[string]interface{}{"id": "3", "label": "water the plants", "checked": false},
			data["addTodo"],
		)
	})

	t.Run("update returns post-image", func(t *testing.T) {
		ctrl := &controllerMock{
			updateTodo: func(
				_ context.Context,
				input controller.UpdateTodoInput,
			) (*model.Todo, error) {
				require.Equal(t, int32(3), input.ID)
				require.Nil(t, input.Label)
				require.NotNil(t, input.Checked)
				require.True(t, *input.Checked)
				return &model.Todo{ID: 3, Label: "water the plants", Checked: true}, nil
			},
		}

		data := exec(t, ctrl, `mutation { updateTodo(id: "3", checked: true) { id checked } }`)
		require.Equal(
			t,
			map[string]interface{}{"id": "3", "checked": true},
			data["updateTodo"],
		)
	})

	t.Run("delete returns pre-image", func(t *testing.T) {
		ctrl := &controllerMock{
			deleteTodo: func(_ context.Context, id int32) (*model.Todo, error) {
				require.Equal(t, int32(3), id)
				return &model.Todo{ID: 3, Label: "water the plants", Checked: true}, nil
			},
		}

		data := exec(t, ctrl, `mutation { deleteTodo(id: "3") { id label checked } }`)
		require.Equal(
			t,
			map[string]interface{}{"id": "3", "label": "water the plants", "checked": true},
			data["deleteTodo"],
		)
	})
}

func TestUserProductRelationships(t *testing.T) {
	userID := int32(7)
	productID := int32(11)

	t.Run("resolved references", func(t *testing.T) {
		ctrl := &controllerMock{
			userProduct: func(_ context.Context, id int32) (*model.UserProduct, error) {
				return &model.UserProduct{
					ID:            id,
					UserID:        &userID,
					ProductID:     &productID,
					QuantityOwned: 2,
				}, nil
			},
			user: func(_ context.Context, id int32) (*model.User, error) {
				require.Equal(t, userID, id)
				return &model.User{ID: id, Name: "Stanley", Email: "stanley@rustpm.com"}, nil
			},
			product: func(_ context.Context, id int32) (*model.Product, error) {
				require.Equal(t, productID, id)
				return &model.Product{ID: id, Name: "mug", Price: 12.5}, nil
			},
		}

		data := exec(
			t,
			ctrl,
			`{ userProduct(id: "1") { quantityOwned user { name } product { name price } } }`,
		)
		require.Equal(
			t,
			map[string]interface{}{
				"quantityOwned": float64(2),
				"user":          map[string]interface{}{"name": "Stanley"},
				"product":       map[string]interface{}{"name": "mug", "price": 12.5},
			},
			data["userProduct"],
		)
	})

	// A dangling foreign key resolves to null without erroring the request.
	t.Run("dangling user reference", func(t *testing.T) {
		ctrl := &controllerMock{
			userProduct: func(_ context.Context, id int32) (*model.UserProduct, error) {
				return &model.UserProduct{
					ID:            id,
					UserID:        &userID,
					QuantityOwned: 1,
				}, nil
			},
			user: func(context.Context, int32) (*model.User, error) {
				return nil, serrors.ErrUserDNE
			},
		}

		data := exec(t, ctrl, `{ userProduct(id: "1") { user { name } product { name } } }`)
		require.Equal(
			t,
			map[string]interface{}{"user": nil, "product": nil},
			data["userProduct"],
		)
	})
}
