package products

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
)

var columns = []string{"id", "name", "category", "description", "price", "image_url"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresRepository_ListProducts(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, category, description, price::float8, image_url FROM products ORDER BY name`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("2", "Chicken Tikka", "Non-Veg", "grilled", 9.0, "").
			AddRow("1", "Samosa", "Veg", "", 2.5, "/img/samosa.png"))

	repo := NewPostgresRepository(mock)
	got, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[1].ID != "1" || got[1].Category != catalog.CategoryVeg || got[1].Price != 2.5 || got[1].ImageURL != "/img/samosa.png" {
		t.Fatalf("unexpected product: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ListProductsEmpty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM products`).WillReturnRows(pgxmock.NewRows(columns))

	got, err := NewPostgresRepository(mock).ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestPostgresRepository_ListProductsQueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM products`).WillReturnError(errors.New("connection reset"))

	_, err := NewPostgresRepository(mock).ListProducts(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestPostgresRepository_ListProductsRowError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM products`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("1", "Samosa", "Veg", "", 2.5, "").
			RowError(0, errors.New("bad row")))

	if _, err := NewPostgresRepository(mock).ListProducts(context.Background()); err == nil {
		t.Fatalf("expected row error")
	}
}

func TestPostgresRepository_Upsert(t *testing.T) {
	mock := newMock(t)
	p := catalog.Product{ID: "1", Name: "Samosa", Category: "Veg", Price: 2.5}
	mock.ExpectExec(`INSERT INTO products`).
		WithArgs("1", "Samosa", "Veg", "", 2.5, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := NewPostgresRepository(mock).Upsert(context.Background(), p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_UpsertRequiresIdentity(t *testing.T) {
	mock := newMock(t)
	if err := NewPostgresRepository(mock).Upsert(context.Background(), catalog.Product{Name: "Samosa"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestPostgresRepository_Seed(t *testing.T) {
	mock := newMock(t)
	seed := []catalog.Product{
		{ID: "1", Name: "Samosa", Category: "Veg", Price: 2.5},
		{ID: "2", Name: "Chicken Tikka", Category: "Non-Veg", Price: 9},
		{ID: "3", Name: "Lassi", Category: "Drinks"},
	}
	mock.ExpectExec(`INSERT INTO products`).
		WithArgs("1", "Samosa", "Veg", "", 2.5, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO products`).
		WithArgs("2", "Chicken Tikka", "Non-Veg", "", 9.0, "").
		WillReturnError(errors.New("deadlock detected"))

	err := NewPostgresRepository(mock).Seed(context.Background(), seed)
	if err == nil {
		t.Fatalf("expected seed to stop at the failing product")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
