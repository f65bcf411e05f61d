package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"
	"github.com/cartana-shop/storefront/internal/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductRepo(t *testing.T) *repository.GormProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products failed: %v", err)
	}
	repo := repository.NewProductRepository(db)

	original := models.NewMoneyFromFloat(199.99)
	seed := []*models.Product{
		{Name: "Wireless Headphones", Category: constants.CategoryElectronics, PriceAmount: models.NewMoneyFromFloat(149.99), OriginalPriceAmount: &original, Image: "/images/headphones.jpg", Rating: 4.6, IsActive: true},
		{Name: "Smart Watch", Category: constants.CategoryElectronics, PriceAmount: models.NewMoneyFromFloat(299.99), Rating: 4.4, IsActive: true},
		{Name: "Cotton T-Shirt", Category: constants.CategoryClothing, PriceAmount: models.NewMoneyFromFloat(24.99), Rating: 4.1, IsActive: true},
	}
	for _, p := range seed {
		if err := repo.Create(p); err != nil {
			t.Fatalf("seed product failed: %v", err)
		}
	}
	return repo
}

func setupCartService(t *testing.T) (*CartService, storage.KV, *repository.GormProductRepository) {
	t.Helper()
	kv := storage.NewMemoryKV()
	repo := setupProductRepo(t)
	return NewCartService(kv, repo), kv, repo
}

func TestCartAddItemMergesByID(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err := svc.AddItem(ctx, "s1", 1, 2)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("add must merge by id, got %d lines", len(view.Lines))
	}
	if view.Lines[0].Quantity != 3 {
		t.Fatalf("quantities must sum, got %d", view.Lines[0].Quantity)
	}
}

func TestCartDerivedTotals(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err := svc.AddItem(ctx, "s1", 3, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if view.TotalItems != 3 {
		t.Fatalf("total items mismatch: %d", view.TotalItems)
	}
	// 149.99*2 + 24.99 = 324.97
	if view.Subtotal.String() != "324.97" {
		t.Fatalf("subtotal mismatch: %s", view.Subtotal.String())
	}
	// (199.99-149.99)*2 = 100.00
	if view.Savings.String() != "100.00" {
		t.Fatalf("savings mismatch: %s", view.Savings.String())
	}
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err := svc.UpdateQuantity(ctx, "s1", 1, 0)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("quantity 0 must remove the line, got %d lines", len(view.Lines))
	}

	if _, err := svc.AddItem(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}
	view, err = svc.UpdateQuantity(ctx, "s1", 1, -3)
	if err != nil {
		t.Fatalf("negative quantity update failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("negative quantity must remove the line")
	}
}

func TestCartUpdateQuantityAbsentIsNoOp(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err := svc.UpdateQuantity(ctx, "s1", 999, 5)
	if err != nil {
		t.Fatalf("update of absent line must not error: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 2 {
		t.Fatalf("absent line update must leave cart unchanged: %+v", view.Lines)
	}
}

func TestCartRemoveItemAbsentIsNoOp(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err := svc.RemoveItem(ctx, "s1", 999)
	if err != nil {
		t.Fatalf("remove of absent line must not error: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("absent removal must leave cart unchanged")
	}
}

func TestCartClear(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err := svc.Clear(ctx, "s1")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(view.Lines) != 0 || view.TotalItems != 0 {
		t.Fatalf("clear must empty the cart: %+v", view)
	}
}

func TestCartRoundTripAcrossServiceInstances(t *testing.T) {
	kv := storage.NewMemoryKV()
	repo := setupProductRepo(t)
	ctx := context.Background()

	first := NewCartService(kv, repo)
	if _, err := first.AddItem(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := first.AddItem(ctx, "s1", 3, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// 新实例只依赖 KV 中的状态
	second := NewCartService(kv, repo)
	view, err := second.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get after reload failed: %v", err)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("round-trip must reproduce the line sequence, got %d lines", len(view.Lines))
	}
	if view.Lines[0].ID != 1 || view.Lines[0].Quantity != 2 || view.Lines[1].ID != 3 {
		t.Fatalf("round-trip state mismatch: %+v", view.Lines)
	}
}

func TestCartCorruptStateFailsOpen(t *testing.T) {
	svc, kv, _ := setupCartService(t)
	ctx := context.Background()

	if err := kv.Set(ctx, constants.KVKeyCartPrefix+"s1", []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt state failed: %v", err)
	}
	view, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("corrupt state must not surface an error: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("corrupt state must fall back to an empty cart")
	}

	// 之后的写入正常恢复
	view, err = svc.AddItem(ctx, "s1", 1, 1)
	if err != nil {
		t.Fatalf("add after corrupt state failed: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("cart must recover after corrupt state")
	}
}

func TestCartSessionRequired(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, " "); err != ErrSessionRequired {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "", 1, 1); err != ErrSessionRequired {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestCartUnknownProductRejected(t *testing.T) {
	svc, _, _ := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", 999, 1); err != ErrProductNotAvailable {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "s1", 0, 1); err != ErrInvalidCartLine {
		t.Fatalf("expected ErrInvalidCartLine, got %v", err)
	}
}
