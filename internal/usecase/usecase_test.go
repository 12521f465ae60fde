package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/data/cache"
	"storefront/internal/data/entity"
	"storefront/internal/data/repository"
	"storefront/internal/dto/request"
	"storefront/pkg/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeImages struct {
	ref     *string
	calls   int
	removed []string
}

func (f *fakeImages) Save(header *multipart.FileHeader) (*string, error) {
	f.calls++
	if header == nil {
		return nil, nil
	}
	return f.ref, nil
}

func (f *fakeImages) Remove(ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

type countingCache struct {
	cache.ProductCache
	invalidations int
}

func (c *countingCache) Invalidate(ctx context.Context) {
	c.invalidations++
	c.ProductCache.Invalidate(ctx)
}

type fixture struct {
	svc    *Service
	repo   *repository.Repository
	images *fakeImages
	cache  *countingCache
}

func newFixture() *fixture {
	repo := repository.NewRepository(database.NewMemoryStore(), zap.NewNop())
	images := &fakeImages{}
	products := &countingCache{ProductCache: cache.NewNoopProductCache()}

	return &fixture{
		svc:    NewService(repo, products, images, zap.NewNop()),
		repo:   repo,
		images: images,
		cache:  products,
	}
}

func hammer() *request.ProductRequest {
	return &request.ProductRequest{
		Category:    "tools",
		ProductName: "Hammer",
		Quantity:    "5",
		Quality:     "A",
		Price:       "$10.00",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "alice", Password: "pw1", Role: "user"}))

	auth, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", auth.Username)
	assert.Equal(t, entity.RoleUser, auth.Role)

	stored, err := f.repo.User.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "admin", Password: "secret", Role: "admin"}))

	_, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "ghost", Password: "secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateAndBadRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "alice", Password: "pw1", Role: "user"}))
	assert.ErrorIs(t, f.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "alice", Password: "pw2", Role: "admin"}), ErrUsernameTaken)

	var verr *ValidationError
	err := f.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "bob", Password: "pw1", Role: "root"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Role")
}

// blindUsers never finds an existing user, as when two registrations for
// the same name both pass the lookup before either inserts
type blindUsers struct {
	repository.UserRepository
}

func (blindUsers) FindByUsername(context.Context, string) (*entity.User, error) {
	return nil, nil
}

func TestRegisterRaceStillRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.repo.User = blindUsers{UserRepository: f.repo.User}

	require.NoError(t, f.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "alice", Password: "pw1", Role: "user"}))
	err := f.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "alice", Password: "pw2", Role: "admin"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateProductWithoutImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.svc.Product.Create(ctx, hammer(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.invalidations)

	products, err := f.svc.Product.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "$10.00", products[0].Price)
	assert.Nil(t, products[0].ImageURL)

	got, err := f.svc.Product.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "tools", got.Category)
	assert.Equal(t, "Hammer", got.ProductName)
	assert.Equal(t, "5", got.Quantity)
	assert.Equal(t, "A", got.Quality)
	assert.Equal(t, "$10.00", got.Price)
}

type failingProducts struct {
	repository.ProductRepository
}

func (failingProducts) Create(context.Context, *entity.Product) error {
	return errors.New("connection reset")
}

func (failingProducts) Update(context.Context, *entity.Product) error {
	return errors.New("connection reset")
}

func TestFailedWriteRemovesUploadedImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.svc.Product.Create(ctx, hammer(), nil)
	require.NoError(t, err)

	f.repo.Product = failingProducts{ProductRepository: f.repo.Product}
	ref := "/static/uploads/abc_hammer.png"
	f.images.ref = &ref

	_, err = f.svc.Product.Create(ctx, hammer(), &multipart.FileHeader{Filename: "hammer.png"})
	require.Error(t, err)
	assert.Equal(t, []string{ref}, f.images.removed)

	_, err = f.svc.Product.Update(ctx, created.ID.String(), &request.ProductUpdateRequest{
		ProductName: "Hammer", Quantity: "5", Quality: "A", Price: "$10.00",
	}, &multipart.FileHeader{Filename: "hammer.png"})
	require.Error(t, err)
	assert.Equal(t, []string{ref, ref}, f.images.removed)
}

func TestFailedWriteWithoutImageRemovesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.repo.Product = failingProducts{ProductRepository: f.repo.Product}

	_, err := f.svc.Product.Create(ctx, hammer(), nil)
	require.Error(t, err)
	assert.Empty(t, f.images.removed)
}

// stalledProducts parks one FindAll after it has read the store, until the
// test releases it.
type stalledProducts struct {
	repository.ProductRepository
	stall   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (s *stalledProducts) FindAll(ctx context.Context) ([]*entity.Product, error) {
	products, err := s.ProductRepository.FindAll(ctx)
	if s.stall.CompareAndSwap(true, false) {
		s.read <- struct{}{}
		<-s.release
	}
	return products, err
}

func TestListDoesNotCacheListingOlderThanCreate(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := repository.NewRepository(database.NewMemoryStore(), zap.NewNop())
	stalled := &stalledProducts{
		ProductRepository: repo.Product,
		read:              make(chan struct{}),
		release:           make(chan struct{}),
	}
	repo.Product = stalled
	svc := NewService(repo, cache.NewRedisProductCache(rdb, time.Minute, zap.NewNop()), &fakeImages{}, zap.NewNop())

	stalled.stall.Store(true)
	listed := make(chan []*entity.Product, 1)
	go func() {
		products, err := svc.Product.List(ctx)
		assert.NoError(t, err)
		listed <- products
	}()

	// the listing has read an empty store and not yet written the cache
	<-stalled.read
	_, err := svc.Product.Create(ctx, hammer(), nil)
	require.NoError(t, err)
	close(stalled.release)

	assert.Empty(t, <-listed)

	products, err := svc.Product.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Hammer", products[0].ProductName)

	// and the fresh listing is the one served from cache
	products, err = svc.Product.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestGetProductNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Product.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.svc.Product.Get(ctx, "0b6c9f53-5a4f-4d2b-9d6f-6bd1d1f0a111")
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, f.svc.Product.Delete(ctx, "0b6c9f53-5a4f-4d2b-9d6f-6bd1d1f0a111"), ErrProductNotFound)
}

func TestUpdateProductKeepsImageWithoutUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	ref := "/static/uploads/abc_hammer.png"
	f.images.ref = &ref
	created, err := f.svc.Product.Create(ctx, hammer(), &multipart.FileHeader{Filename: "hammer.png"})
	require.NoError(t, err)
	require.NotNil(t, created.ImageURL)

	updated, err := f.svc.Product.Update(ctx, created.ID.String(), &request.ProductUpdateRequest{
		ProductName: "Claw Hammer",
		Quantity:    "4",
		Quality:     "B",
		Price:       "$12.50",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "tools", updated.Category)
	assert.Equal(t, "Claw Hammer", updated.ProductName)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, ref, *updated.ImageURL)

	got, err := f.svc.Product.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "$12.50", got.Price)
	assert.Equal(t, ref, *got.ImageURL)
	assert.Equal(t, 2, f.cache.invalidations)
}

func TestUpdateProductChangesCategoryWhenSupplied(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.svc.Product.Create(ctx, hammer(), nil)
	require.NoError(t, err)

	category := "hardware"
	updated, err := f.svc.Product.Update(ctx, created.ID.String(), &request.ProductUpdateRequest{
		Category:    &category,
		ProductName: "Hammer",
		Quantity:    "5",
		Quality:     "A",
		Price:       "$10.00",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hardware", updated.Category)
}

func TestOrderTotalIsExact(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cases := []struct {
		quantity, price, total string
	}{
		{"3", "$0.10", "0.3"},
		{"2", "$10.00", "20"},
		{"7", " $ 19.99 ", "139.93"},
		{"1", "0", "0"},
	}

	for _, tc := range cases {
		order, err := f.svc.Order.PlaceOrder(ctx, "product-1", &request.OrderRequest{
			Name:     "Alice",
			Contact:  "555-0100",
			Address:  "1 Main St",
			Quantity: tc.quantity,
			Quality:  "A",
			Price:    tc.price,
		})
		require.NoError(t, err, tc.price)

		want := decimal.RequireFromString(tc.total)
		assert.True(t, want.Equal(order.TotalPrice), "%s x %s = %s", tc.quantity, tc.price, order.TotalPrice)
		assert.True(t, order.Price.Mul(decimal.NewFromInt(int64(order.Quantity))).Equal(order.TotalPrice))
	}
}

func TestOrderRejectsMalformedNumbers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	base := request.OrderRequest{Name: "A", Contact: "B", Address: "C", Quality: "A"}

	for _, tc := range []struct{ quantity, price, field string }{
		{"abc", "$1.00", "Quantity"},
		{"0", "$1.00", "Quantity"},
		{"-2", "$1.00", "Quantity"},
		{"1", "ten", "Price"},
		{"1", "$-1.00", "Price"},
		{"1", "$", "Price"},
	} {
		req := base
		req.Quantity = tc.quantity
		req.Price = tc.price

		var verr *ValidationError
		_, err := f.svc.Order.PlaceOrder(ctx, "p", &req)
		require.ErrorAs(t, err, &verr, "%s / %s", tc.quantity, tc.price)
		assert.Contains(t, verr.Fields, tc.field)
	}
}

func TestDeletingProductKeepsOrdersAndFeedback(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	repo := repository.NewRepository(store, zap.NewNop())
	svc := NewService(repo, cache.NewNoopProductCache(), &fakeImages{}, zap.NewNop())

	product, err := svc.Product.Create(ctx, hammer(), nil)
	require.NoError(t, err)
	id := product.ID.String()

	_, err = svc.Order.PlaceOrder(ctx, id, &request.OrderRequest{
		Name: "A", Contact: "B", Address: "C", Quantity: "1", Quality: "A", Price: "$10.00",
	})
	require.NoError(t, err)
	_, err = svc.Feedback.Submit(ctx, &request.FeedbackRequest{
		ProductID: id, Feedback: "solid", Rating: 5, Name: "A", Contact: "B", Address: "C",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Product.Delete(ctx, id))

	orders, err := store.Collection(repository.OrdersCollection).Find(ctx, database.Filter{"product_id": id})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	feedbacks, err := svc.Feedback.List(ctx)
	require.NoError(t, err)
	require.Len(t, feedbacks, 1)
	assert.Equal(t, id, feedbacks[0].ProductID)
}

func TestFeedbackLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	var verr *ValidationError
	_, err := f.svc.Feedback.Submit(ctx, &request.FeedbackRequest{
		ProductID: "p", Feedback: "x", Rating: 9, Name: "A", Contact: "B", Address: "C",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Must be at most 5", verr.Fields["Rating"])

	fb, err := f.svc.Feedback.Submit(ctx, &request.FeedbackRequest{
		ProductID: "p", Feedback: "great", Rating: 4, Name: "A", Contact: "B", Address: "C",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Feedback.Delete(ctx, fb.ID.String()))
	assert.ErrorIs(t, f.svc.Feedback.Delete(ctx, fb.ID.String()), ErrFeedbackNotFound)
	assert.ErrorIs(t, f.svc.Feedback.Delete(ctx, "garbage"), ErrFeedbackNotFound)
}

func TestContactSend(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.svc.Contact.Send(ctx, &request.ContactRequest{Name: "Carol", Email: "carol@example.com", Message: "hi"}))

	var verr *ValidationError
	err := f.svc.Contact.Send(ctx, &request.ContactRequest{Name: "Carol", Email: "nope", Message: "hi"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid email format", verr.Fields["Email"])
}
