package services

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arnavm03/storedesk/internal/models"
	"github.com/arnavm03/storedesk/internal/query"
)

func TestStripFields(t *testing.T) {
	updates := map[string]any{
		"name":           "N",
		"password":       "x",
		"email":          "a@x.com",
		"role":           "admin",
		"activeSessions": []string{"t"},
		"city":           "Pune",
	}

	StripFields(updates, userProtectedFields...)

	want := map[string]any{"name": "N", "role": "admin", "city": "Pune"}
	if !reflect.DeepEqual(updates, want) {
		t.Errorf("got %v, want %v", updates, want)
	}
}

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bson.M
		ok    bool
	}{
		{"true means in stock", true, bson.M{"stock": bson.M{"$gt": 0}}, true},
		{"false means out of stock", false, bson.M{"stock": 0}, true},
		{"string true", "true", bson.M{"stock": bson.M{"$gt": 0}}, true},
		{"garbage ignored", "lots", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := stockStatus(tt.value)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductSearchDefinition(t *testing.T) {
	q := productSearch.Filter(query.Params{
		Search: "desk",
		Filters: map[string]any{
			"category": "Furniture",
			"minPrice": float64(100),
			"maxPrice": float64(500),
			"inStock":  true,
		},
	})

	if q["category"] != "Furniture" {
		t.Errorf("category = %v, want Furniture", q["category"])
	}
	wantPrice := bson.M{"$gte": float64(100), "$lte": float64(500)}
	if !reflect.DeepEqual(q["price"], wantPrice) {
		t.Errorf("price = %v, want %v", q["price"], wantPrice)
	}
	if !reflect.DeepEqual(q["stock"], bson.M{"$gt": 0}) {
		t.Errorf("stock = %v, want stock > 0", q["stock"])
	}
	or, ok := q["$or"].([]bson.M)
	if !ok || len(or) != 3 {
		t.Fatalf("expected search across name/description/sku, got %v", q["$or"])
	}
}

func TestUserSearchDefinition(t *testing.T) {
	q := userSearch.Filter(query.Params{
		Filters: map[string]any{
			"role":        "admin",
			"city":        "del",
			"accVerified": "true",
		},
	})

	if q["role"] != "admin" {
		t.Errorf("role = %v, want admin", q["role"])
	}
	if !reflect.DeepEqual(q["city"], primitive.Regex{Pattern: "del", Options: "i"}) {
		t.Errorf("city = %v, want case-insensitive substring", q["city"])
	}
	if q["accVerified"] != true {
		t.Errorf("accVerified = %v, want true", q["accVerified"])
	}
}

func TestProductInputValidate(t *testing.T) {
	price := 10.0
	negPrice := -1.0
	negStock := -2

	tests := []struct {
		name    string
		in      ProductInput
		wantErr bool
	}{
		{"missing price", ProductInput{Name: "A", Description: "d", SKU: "S1"}, true},
		{"missing sku", ProductInput{Name: "A", Description: "d", Price: &price}, true},
		{"negative price", ProductInput{Name: "A", Description: "d", Price: &negPrice, SKU: "S1"}, true},
		{"negative stock", ProductInput{Name: "A", Description: "d", Price: &price, SKU: "S1", Stock: &negStock}, true},
		{"unknown category", ProductInput{Name: "A", Description: "d", Price: &price, SKU: "S1", Category: "Gadgets"}, true},
		{"minimal valid", ProductInput{Name: "A", Description: "d", Price: &price, SKU: "S1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProductInputValidateDefaults(t *testing.T) {
	price := 10.0
	in := ProductInput{Name: " A ", Description: "d", Price: &price, SKU: " S1 "}
	if err := in.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Category != models.DefaultCategory {
		t.Errorf("category = %q, want %q", in.Category, models.DefaultCategory)
	}
	if in.Image != models.DefaultProductImage {
		t.Errorf("image = %q, want default placeholder", in.Image)
	}
	if in.SKU != "S1" || in.Name != "A" {
		t.Errorf("expected trimmed fields, got sku=%q name=%q", in.SKU, in.Name)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("password stored in plain text")
	}
	if !VerifyPassword("secret1", hash) {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword("secret2", hash) {
		t.Error("expected non-matching password to fail")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  A@X.Com "); got != "a@x.com" {
		t.Errorf("got %q, want a@x.com", got)
	}
}
