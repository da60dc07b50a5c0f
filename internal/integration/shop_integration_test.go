package integration

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"
	"github.com/WooDaeYoon/dahandinworld/internal/service"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(dbp.Close)

	applyMigrations(t, dbp)
	return dbp
}

func applyMigrations(t *testing.T, dbp *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := dbp.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// freshScope returns a scope no other test run has touched.
func freshScope(t *testing.T) classpath.Scope {
	t.Helper()
	return classpath.Resolve("T" + uuid.NewString()[:8])
}

func seedStudent(t *testing.T, dbp *pgxpool.Pool, scope classpath.Scope, code, name string) {
	t.Helper()
	if err := repository.NewStudentRepository(dbp).Sync(context.Background(), scope, code, name); err != nil {
		t.Fatalf("sync student: %v", err)
	}
}

func seedItem(t *testing.T, dbp *pgxpool.Pool, scope classpath.Scope, item *domain.ShopItem) *domain.ShopItem {
	t.Helper()
	if err := repository.NewItemRepository(dbp).Create(context.Background(), scope, item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func rich(code string) *dahandin.StudentTotal {
	return &dahandin.StudentTotal{Code: code, Cookie: 1000, TotalCookie: 1000}
}

func TestPurchaseStacksQuantity(t *testing.T) {
	dbp := testPool(t)
	ctx := context.Background()
	scope := freshScope(t)

	seedStudent(t, dbp, scope, "1203", "Jisoo")
	item := seedItem(t, dbp, scope, &domain.ShopItem{
		Name: "Sticker Pack", Price: 30, Category: domain.CategoryOthers,
	})

	shop := service.NewShopService(dbp)
	for i := 0; i < 2; i++ {
		if _, err := shop.Purchase(ctx, scope, "1203", item.ID, rich("1203")); err != nil {
			t.Fatalf("purchase %d: %v", i+1, err)
		}
	}

	entries, err := shop.Inventory(ctx, scope, "1203")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d inventory rows, want 1", len(entries))
	}
	if entries[0].Quantity != 2 {
		t.Fatalf("got quantity %d, want 2", entries[0].Quantity)
	}

	balance, err := service.NewLedgerService(dbp).Balance(ctx, scope, "1203", 1000)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Spendable != 940 {
		t.Fatalf("got spendable %d, want 940", balance.Spendable)
	}
}

func TestEquippableCannotBeBoughtTwice(t *testing.T) {
	dbp := testPool(t)
	ctx := context.Background()
	scope := freshScope(t)

	seedStudent(t, dbp, scope, "1203", "Jisoo")
	item := seedItem(t, dbp, scope, &domain.ShopItem{
		Name: "Blue Hair", Price: 50, Category: domain.CategoryHair,
	})

	shop := service.NewShopService(dbp)
	if _, err := shop.Purchase(ctx, scope, "1203", item.ID, rich("1203")); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if _, err := shop.Purchase(ctx, scope, "1203", item.ID, rich("1203")); err != service.ErrAlreadyOwned {
		t.Fatalf("second purchase: got %v, want ErrAlreadyOwned", err)
	}
}

func TestEquipReplacesSlot(t *testing.T) {
	dbp := testPool(t)
	ctx := context.Background()
	scope := freshScope(t)

	seedStudent(t, dbp, scope, "1203", "Jisoo")
	hairA := seedItem(t, dbp, scope, &domain.ShopItem{
		Name: "Blue Hair", Price: 10, Category: domain.CategoryHair,
	})
	hairB := seedItem(t, dbp, scope, &domain.ShopItem{
		Name: "Pink Hair", Price: 10, Category: domain.CategoryHair,
	})

	shop := service.NewShopService(dbp)
	for _, item := range []*domain.ShopItem{hairA, hairB} {
		if _, err := shop.Purchase(ctx, scope, "1203", item.ID, rich("1203")); err != nil {
			t.Fatalf("purchase %s: %v", item.Name, err)
		}
	}

	if _, err := shop.Equip(ctx, scope, "1203", hairA.ID); err != nil {
		t.Fatalf("equip A: %v", err)
	}
	equipped, err := shop.Equip(ctx, scope, "1203", hairB.ID)
	if err != nil {
		t.Fatalf("equip B: %v", err)
	}

	current, ok := equipped[domain.CategoryHair]
	if !ok {
		t.Fatal("hair slot empty after equip")
	}
	if current.ID != hairB.ID {
		t.Fatalf("hair slot holds %s, want %s", current.ID, hairB.ID)
	}
}

func TestGlobalItemHiddenPerClass(t *testing.T) {
	dbp := testPool(t)
	ctx := context.Background()

	classA := freshScope(t)
	classB := freshScope(t)
	global := seedItem(t, dbp, classpath.GlobalScope, &domain.ShopItem{
		Name: "Platform Crown " + uuid.NewString()[:8], Price: 10, Category: domain.CategoryAccessory,
	})

	items := repository.NewItemRepository(dbp)
	if err := items.HideGlobalItem(ctx, classA, global.ID); err != nil {
		t.Fatalf("hide: %v", err)
	}
	// hiding twice must be a no-op, not an error
	if err := items.HideGlobalItem(ctx, classA, global.ID); err != nil {
		t.Fatalf("hide again: %v", err)
	}

	shop := service.NewShopService(dbp)
	inCatalog := func(scope classpath.Scope) bool {
		catalog, err := shop.Catalog(ctx, scope, false)
		if err != nil {
			t.Fatalf("catalog %s: %v", scope, err)
		}
		for _, it := range catalog {
			if it.ID == global.ID {
				return true
			}
		}
		return false
	}

	if inCatalog(classA) {
		t.Fatal("hidden item still visible in hiding class")
	}
	if !inCatalog(classB) {
		t.Fatal("item missing from an unrelated class")
	}

	if err := items.UnhideGlobalItem(ctx, classA, global.ID); err != nil {
		t.Fatalf("unhide: %v", err)
	}
	if !inCatalog(classA) {
		t.Fatal("item still hidden after unhide")
	}
}

func TestDonationRaisesLoveTemperature(t *testing.T) {
	dbp := testPool(t)
	ctx := context.Background()
	scope := freshScope(t)

	seedStudent(t, dbp, scope, "1203", "Jisoo")
	goal := seedItem(t, dbp, scope, &domain.ShopItem{
		Name: "Class Party Fund", Price: 100, Category: domain.CategoryOthers, IsDonation: true,
	})

	shop := service.NewShopService(dbp)
	if _, err := shop.Donate(ctx, scope, "1203", goal.ID, rich("1203")); err != nil {
		t.Fatalf("donate: %v", err)
	}

	degrees, err := repository.NewClassRepository(dbp).LoveTemperature(ctx, scope)
	if err != nil {
		t.Fatalf("love temperature: %v", err)
	}
	if math.Abs(degrees-1.0) > 1e-9 {
		t.Fatalf("got %f degrees, want 1.0", degrees)
	}

	balance, err := service.NewLedgerService(dbp).Balance(ctx, scope, "1203", 1000)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Donated != 100 {
		t.Fatalf("got donated %d, want 100", balance.Donated)
	}
	if balance.Spendable != 900 {
		t.Fatalf("got spendable %d, want 900", balance.Spendable)
	}
}

func TestPurchaseRejectedWithoutWrites(t *testing.T) {
	dbp := testPool(t)
	ctx := context.Background()
	scope := freshScope(t)

	seedStudent(t, dbp, scope, "1203", "Jisoo")
	item := seedItem(t, dbp, scope, &domain.ShopItem{
		Name: "Golden Frame", Price: 5000, Category: domain.CategoryBackground,
	})

	shop := service.NewShopService(dbp)
	_, err := shop.Purchase(ctx, scope, "1203", item.ID, rich("1203"))
	if err != service.ErrInsufficientCookies {
		t.Fatalf("got %v, want ErrInsufficientCookies", err)
	}

	// A rejected purchase must leave no trace in the log or inventory.
	balance, err := service.NewLedgerService(dbp).Balance(ctx, scope, "1203", 1000)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Spent != 0 {
		t.Fatalf("got spent %d after rejected purchase, want 0", balance.Spent)
	}
	entries, err := shop.Inventory(ctx, scope, "1203")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d inventory rows after rejected purchase, want 0", len(entries))
	}
}
