package graph

import (
	"context"
	"errors"

	serrors "github.com/shelfstack/shelfstack/internal/errors"
	"github.com/shelfstack/shelfstack/internal/model"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

type userResolver struct {
	user model.User
}

func (r *userResolver) ID() graphql.ID { return formatID(r.user.ID) }
func (r *userResolver) Name() string   { return r.user.Name }
func (r *userResolver) Email() string  { return r.user.Email }

type productResolver struct {
	product model.Product
}

func (r *productResolver) ID() graphql.ID { return formatID(r.product.ID) }
func (r *productResolver) Name() string   { return r.product.Name }
func (r *productResolver) Price() float64 { return r.product.Price }

type userProductResolver struct {
	resolver    *Resolver
	userProduct model.UserProduct
}

func (r *userProductResolver) ID() graphql.ID       { return formatID(r.userProduct.ID) }
func (r *userProductResolver) UserID() *int32       { return r.userProduct.UserID }
func (r *userProductResolver) ProductID() *int32    { return r.userProduct.ProductID }
func (r *userProductResolver) QuantityOwned() int32 { return r.userProduct.QuantityOwned }

// User resolves the owning user on demand. A null or dangling reference
// resolves to null rather than an error.
func (r *userProductResolver) User(ctx context.Context) (*userResolver, error) {
	if r.userProduct.UserID == nil {
		return nil, nil
	}

	user, err := r.resolver.ctrl.User(ctx, *r.userProduct.UserID)
	if errors.Is(err, serrors.ErrUserDNE) {
		return nil, nil
	}
	if err != nil {
		r.resolver.logger.Error("error resolving user product's user", zap.Error(err))
		return nil, errInternalServer
	}
	return &userResolver{user: *user}, nil
}

// Product resolves the owned product on demand, null on a dangling
// reference.
func (r *userProductResolver) Product(ctx context.Context) (*productResolver, error) {
	if r.userProduct.ProductID == nil {
		return nil, nil
	}

	product, err := r.resolver.ctrl.Product(ctx, *r.userProduct.ProductID)
	if errors.Is(err, serrors.ErrProductDNE) {
		return nil, nil
	}
	if err != nil {
		r.resolver.logger.Error("error resolving user product's product", zap.Error(err))
		return nil, errInternalServer
	}
	return &productResolver{product: *product}, nil
}

type todoResolver struct {
	todo model.Todo
}

func (r *todoResolver) ID() graphql.ID          { return formatID(r.todo.ID) }
func (r *todoResolver) Label() string           { return r.todo.Label }
func (r *todoResolver) Checked() bool           { return r.todo.Checked }
func (r *todoResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.todo.CreatedAt} }
func (r *todoResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: r.todo.UpdatedAt} }

type authPayloadResolver struct {
	token string
	user  model.User
}

func (r *authPayloadResolver) Token() string       { return r.token }
func (r *authPayloadResolver) User() *userResolver { return &userResolver{user: r.user} }
