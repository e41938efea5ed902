package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/event"
	"github.com/freshchoice/storefront/pkg/storage"
	"github.com/freshchoice/storefront/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Seeded ids: allergens follow the seed list, products are Brood, Kaas, Noten.
const (
	allergenGluten uint = 1
	allergenShell  uint = 2
	allergenPeanut uint = 5
	allergenMilk   uint = 7
)

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func register(t *testing.T, db *gorm.DB, name, email string, allergens ...int64) uint {
	t.Helper()
	id, err := services.NewAuthService(db).Register(context.Background(), services.RegisterInput{
		Name: name, Email: email, Password: "pw123", AllergenIDs: allergens,
	})
	require.NoError(t, err)
	return id
}

func ptr(s string) *string { return &s }

// ─── Auth ─────────────────────────────────────────────────────────────────────

func TestRegisterRejectsDuplicateNormalizedEmail(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegisterInput{Name: "Anna", Email: "anna@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, services.RegisterInput{Name: "Anna2", Email: " ANNA@x.com ", Password: "pw456"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	assert.Equal(t, int64(1), count(t, db, &models.User{}))
}

func TestRegisterStoresProfileAndAllergens(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	id, err := services.NewAuthService(db).Register(ctx, services.RegisterInput{
		Name:        " Bram ",
		Email:       "Bram@Example.com",
		Password:    "secret",
		Address:     ptr("Dorpsstraat 1"),
		Phone:       ptr("  "),
		AllergenIDs: []int64{int64(allergenMilk), int64(allergenMilk), 0},
	})
	require.NoError(t, err)

	profiles := services.NewProfileService(db)
	view, err := profiles.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bram", view.Name)
	assert.Equal(t, "bram@example.com", view.Email)
	require.NotNil(t, view.Address)
	assert.Equal(t, "Dorpsstraat 1", *view.Address)
	assert.Nil(t, view.Phone)

	ids, err := profiles.GetAllergens(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []uint{allergenMilk}, ids)
}

func TestRegisterWithUnknownAllergenRollsBack(t *testing.T) {
	db := testkit.NewDB(t)

	_, err := services.NewAuthService(db).Register(context.Background(), services.RegisterInput{
		Name: "Cas", Email: "cas@x.com", Password: "pw123", AllergenIDs: []int64{999},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, count(t, db, &models.User{}))
	assert.Zero(t, count(t, db, &models.Profile{}))
}

func TestVerify(t *testing.T) {
	db := testkit.NewDB(t)
	id := register(t, db, "Anna", "anna@x.com")
	svc := services.NewAuthService(db)
	ctx := context.Background()

	user, err := svc.Verify(ctx, "  Anna@X.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = svc.Verify(ctx, "anna@x.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = svc.Verify(ctx, "nobody@x.com", "pw123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestMeUnknownUser(t *testing.T) {
	db := testkit.NewDB(t)
	_, err := services.NewAuthService(db).Me(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// ─── Profile / allergens ──────────────────────────────────────────────────────

func TestSaveProfile(t *testing.T) {
	db := testkit.NewDB(t)
	register(t, db, "Anna", "anna@x.com")
	bram := register(t, db, "Bram", "bram@x.com")
	svc := services.NewProfileService(db)
	ctx := context.Background()

	_, err := svc.SaveProfile(ctx, bram, services.ProfileInput{Name: "Bram", Email: "ANNA@x.com"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)

	view, err := svc.SaveProfile(ctx, bram, services.ProfileInput{
		Name: "Bram B", Email: "Bram@x.com", Address: ptr("Markt 2"), Phone: ptr("+31 6 1234 5678"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bram B", view.Name)
	assert.Equal(t, "bram@x.com", view.Email)
	assert.Equal(t, "+31 6 1234 5678", *view.Phone)

	view, err = svc.SaveProfile(ctx, bram, services.ProfileInput{Name: "Bram B", Email: "bram@x.com"})
	require.NoError(t, err)
	assert.Nil(t, view.Address, "cleared fields are stored as NULL")
	assert.Equal(t, int64(2), count(t, db, &models.Profile{}))
}

func TestGetProfileUnknownUser(t *testing.T) {
	db := testkit.NewDB(t)
	_, err := services.NewProfileService(db).GetProfile(context.Background(), 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListAllergensOrderedByName(t *testing.T) {
	db := testkit.NewDB(t)
	all, err := services.NewProfileService(db).ListAllergens(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 14)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}
}

func TestSaveAllergensReplacesAtomically(t *testing.T) {
	db := testkit.NewDB(t)
	uid := register(t, db, "Anna", "anna@x.com")
	svc := services.NewProfileService(db)
	ctx := context.Background()

	saved, err := svc.SaveAllergens(ctx, uid, []int64{int64(allergenShell), int64(allergenPeanut), int64(allergenShell), -3})
	require.NoError(t, err)
	// pinda sorts before schaaldieren
	assert.Equal(t, []uint{allergenPeanut, allergenShell}, saved)

	_, err = svc.SaveAllergens(ctx, uid, []int64{int64(allergenGluten), 999})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	ids, err := svc.GetAllergens(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, []uint{allergenPeanut, allergenShell}, ids, "failed save keeps the previous set")

	saved, err = svc.SaveAllergens(ctx, uid, nil)
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.NotNil(t, saved)
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

func TestCatalog(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewCatalogService(db, nil)
	ctx := context.Background()

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Brood", products[0].Name)
	assert.Equal(t, models.Cents(275), products[0].Price)
	require.NotNil(t, products[0].AllergenName)
	assert.Equal(t, "glutenbevattende granen", *products[0].AllergenName)

	kaas, err := svc.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Kaas", kaas.Name)
	assert.Equal(t, allergenMilk, *kaas.AllergenID)

	_, err = svc.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// ─── Checkout ─────────────────────────────────────────────────────────────────

func TestCheckoutEmptyCart(t *testing.T) {
	db := testkit.NewDB(t)
	_, err := services.NewOrderService(db, nil, nil).Checkout(context.Background(), nil, nil)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
	assert.Zero(t, count(t, db, &models.Order{}))
}

func TestCheckoutPersistsOrderAndBarcode(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	receipt, err := services.NewOrderService(db, nil, nil).Checkout(ctx, nil, []services.LineItem{
		{ProductID: 1, Qty: 2},
		{ProductID: 2, Qty: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "020100", receipt.Barcode)
	assert.Contains(t, receipt.BarcodeImage, "data:image/png;base64,")
	assert.Empty(t, receipt.BarcodeURL)
	assert.Empty(t, receipt.AllergenWarnings)

	var order models.Order
	require.NoError(t, db.Preload("Lines").Take(&order, receipt.ID).Error)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "020100", order.Barcode)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, map[uint]int{1: 2, 2: 1}, lineQty(order.Lines))
	assert.Equal(t, int64(2), count(t, db, &models.OrderLine{}))
}

func lineQty(lines []models.OrderLine) map[uint]int {
	out := make(map[uint]int, len(lines))
	for _, l := range lines {
		out[l.ProductID] = l.Qty
	}
	return out
}

func TestCheckoutSumsRepeatedLines(t *testing.T) {
	db := testkit.NewDB(t)

	receipt, err := services.NewOrderService(db, nil, nil).Checkout(context.Background(), nil, []services.LineItem{
		{ProductID: 3, Qty: 4},
		{ProductID: 3, Qty: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, "000010", receipt.Barcode)

	var order models.Order
	require.NoError(t, db.Preload("Lines").Take(&order, receipt.ID).Error)
	assert.Equal(t, map[uint]int{3: 10}, lineQty(order.Lines))
}

func TestCheckoutRejectsInvalidLines(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewOrderService(db, nil, nil)

	cases := map[string][]services.LineItem{
		"unknown product":  {{ProductID: 9, Qty: 1}},
		"zero product":     {{ProductID: 0, Qty: 1}},
		"zero qty":         {{ProductID: 1, Qty: 0}},
		"negative qty":     {{ProductID: 1, Qty: -2}},
		"fractional qty":   {{ProductID: 1, Qty: 1.5}},
		"over cap":         {{ProductID: 1, Qty: 100}},
		"over cap summed":  {{ProductID: 1, Qty: 50}, {ProductID: 1, Qty: 50}},
		"one bad among ok": {{ProductID: 1, Qty: 1}, {ProductID: 42, Qty: 1}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), nil, items)
			assert.ErrorIs(t, err, apperr.ErrInvalidLineItem)
		})
	}
	assert.Zero(t, count(t, db, &models.Order{}))
}

func TestCheckoutWarnsAboutDeclaredAllergens(t *testing.T) {
	db := testkit.NewDB(t)
	uid := register(t, db, "Anna", "anna@x.com", int64(allergenGluten), int64(allergenMilk))

	receipt, err := services.NewOrderService(db, nil, nil).Checkout(context.Background(), &uid, []services.LineItem{
		{ProductID: 1, Qty: 1},
		{ProductID: 3, Qty: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, receipt.AllergenWarnings, "Kaas is not in the cart")

	var order models.Order
	require.NoError(t, db.Take(&order, receipt.ID).Error)
	require.NotNil(t, order.UserID)
	assert.Equal(t, uid, *order.UserID)
}

func TestCheckoutArchivesBarcodeAndFiresEvent(t *testing.T) {
	db := testkit.NewDB(t)
	root := t.TempDir()
	disk, err := storage.NewLocalDisk(root, "http://localhost:3001/storage")
	require.NoError(t, err)

	bus := event.New()
	var (
		mu  sync.Mutex
		got []services.OrderPlaced
	)
	bus.Listen(event.OrderPlaced, func(_ context.Context, payload any) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, payload.(services.OrderPlaced))
	})

	receipt, err := services.NewOrderService(db, disk, bus).Checkout(context.Background(), nil, []services.LineItem{
		{ProductID: 2, Qty: 3},
	})
	require.NoError(t, err)
	bus.Wait()

	assert.Equal(t, "http://localhost:3001/storage/"+services.BarcodePath(receipt.ID), receipt.BarcodeURL)
	_, err = os.Stat(filepath.Join(root, services.BarcodePath(receipt.ID)))
	assert.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, receipt.ID, got[0].OrderID)
	assert.Equal(t, "000300", got[0].Barcode)
}

type brokenDisk struct{ storage.Disk }

func (brokenDisk) Name() string { return "broken" }
func (brokenDisk) Put(context.Context, string, []byte, string) error {
	return errors.New("disk full")
}

func TestCheckoutSurvivesArchiveFailure(t *testing.T) {
	db := testkit.NewDB(t)

	receipt, err := services.NewOrderService(db, brokenDisk{}, nil).Checkout(context.Background(), nil, []services.LineItem{
		{ProductID: 1, Qty: 1},
	})
	require.NoError(t, err)
	assert.Empty(t, receipt.BarcodeURL)
	assert.Equal(t, int64(1), count(t, db, &models.Order{}))
}
