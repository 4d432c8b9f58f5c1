package services

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arnavm03/storedesk/internal/cache"
	"github.com/arnavm03/storedesk/internal/models"
	"github.com/arnavm03/storedesk/internal/query"
	"github.com/arnavm03/storedesk/internal/utils"
)

const (
	productListKey   = "products:all"
	productKeyPrefix = "products:"
	productCacheTTL  = 5 * time.Minute
)

// productSearch describes how the products collection is searched.
var productSearch = query.Definition{
	SearchFields: []string{"name", "description", "sku"},
	Exact: map[string]string{
		"category": "category",
	},
	Ranges: []query.NumericRange{
		{MinKey: "minPrice", MaxKey: "maxPrice", Field: "price"},
	},
	Derived: map[string]query.Predicate{
		"inStock": stockStatus,
	},
	DefaultSortBy:    "createdAt",
	DefaultSortOrder: "desc",
}

// stockStatus derives the stock predicate: true means stock > 0, false
// means stock == 0.
func stockStatus(v any) (bson.M, bool) {
	inStock, ok := query.BoolValue(v)
	if !ok {
		return nil, false
	}
	if inStock {
		return bson.M{"stock": bson.M{"$gt": 0}}, true
	}
	return bson.M{"stock": 0}, true
}

// ProductService is the CRUD and search layer over the products
// collection, with a Redis read-through cache on the public reads.
type ProductService struct {
	products *mongo.Collection
	rdb      *redis.Client
}

func NewProductService(database *mongo.Database, rdb *redis.Client) *ProductService {
	return &ProductService{products: database.Collection("products"), rdb: rdb}
}

// List returns every product, newest first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if hit, err := cache.GetJSON(ctx, s.rdb, productListKey, &products); err != nil {
		logrus.WithError(err).Warn("product list cache read failed")
	} else if hit {
		return products, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products = []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.rdb, productListKey, products, productCacheTTL); err != nil {
		logrus.WithError(err).Warn("product list cache write failed")
	}
	return products, nil
}

// Get fetches one product.
func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrInvalidID
	}

	var product models.Product
	key := productKeyPrefix + id
	if hit, err := cache.GetJSON(ctx, s.rdb, key, &product); err != nil {
		logrus.WithError(err).Warn("product cache read failed")
	} else if hit {
		return product, nil
	}

	err = s.products.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	} else if err != nil {
		return models.Product{}, err
	}

	if err := cache.SetJSON(ctx, s.rdb, key, product, productCacheTTL); err != nil {
		logrus.WithError(err).Warn("product cache write failed")
	}
	return product, nil
}

type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Stock       *int     `json:"stock"`
	SKU         string   `json:"sku"`
}

func (in *ProductInput) validate() error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Description == "" || in.Price == nil || in.SKU == "" {
		return invalid("Name, description, price, and SKU are required")
	}
	if *in.Price < 0 {
		return invalid("Price cannot be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return invalid("Stock cannot be negative")
	}
	if in.Category == "" {
		in.Category = models.DefaultCategory
	} else if !models.ValidCategory(in.Category) {
		return invalid("Invalid product category")
	}
	if in.Image == "" {
		in.Image = models.DefaultProductImage
	}
	return nil
}

// Create adds a product, rejecting duplicate SKUs.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	var existing models.Product
	if err := s.products.FindOne(ctx, bson.M{"sku": in.SKU}).Decode(&existing); err == nil {
		return models.Product{}, ErrDuplicateSKU
	}

	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}

	now := time.Now()
	product := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		Image:       in.Image,
		Stock:       stock,
		SKU:         in.SKU,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.products.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Product{}, ErrDuplicateSKU
		}
		return models.Product{}, err
	}

	s.invalidate(ctx)
	return product, nil
}

// Update replaces a product's client-settable fields, re-checking SKU
// uniqueness when the SKU changes.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrInvalidID
	}
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	var existing models.Product
	err = s.products.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	} else if err != nil {
		return models.Product{}, err
	}

	if in.SKU != existing.SKU {
		var clash models.Product
		if err := s.products.FindOne(ctx, bson.M{"sku": in.SKU}).Decode(&clash); err == nil {
			return models.Product{}, ErrDuplicateSKU
		}
	}

	stock := existing.Stock
	if in.Stock != nil {
		stock = *in.Stock
	}

	updates := bson.M{
		"name":        in.Name,
		"description": in.Description,
		"price":       *in.Price,
		"category":    in.Category,
		"image":       in.Image,
		"stock":       stock,
		"sku":         in.SKU,
		"updatedAt":   time.Now(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err = s.products.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": updates}, opts).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	} else if err != nil {
		return models.Product{}, err
	}

	s.invalidate(ctx, id)
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := s.products.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	s.invalidate(ctx, id)
	return nil
}

// Search runs the shared query builder over the products collection.
func (s *ProductService) Search(ctx context.Context, p query.Params) ([]models.Product, query.Pagination, error) {
	filter := productSearch.Filter(p)

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, query.Pagination{}, err
	}

	page, limit := p.PageOrDefault(), p.LimitOrDefault()
	opts := options.Find().
		SetSort(productSearch.Sort(p)).
		SetSkip(p.Skip()).
		SetLimit(int64(limit))
	cursor, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, query.Pagination{}, err
	}
	return products, query.NewPagination(page, limit, total), nil
}

// Seed inserts the sample catalog when the collection is empty. Inserts
// run in parallel; the count of created products is returned.
func (s *ProductService) Seed(ctx context.Context) (int, error) {
	count, err := s.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tasks := make([]utils.ParallelTask, len(sampleProducts))
	for i, sample := range sampleProducts {
		sample := sample
		tasks[i] = func() (interface{}, error) {
			now := time.Now()
			sample.ID = primitive.NewObjectID()
			sample.CreatedAt = now
			sample.UpdatedAt = now
			return s.products.InsertOne(ctx, sample)
		}
	}

	_, errs := utils.RunParallelTasks(tasks)
	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}

	s.invalidate(ctx)
	return len(sampleProducts), nil
}

// invalidate drops the cached list and any cached single products.
func (s *ProductService) invalidate(ctx context.Context, ids ...string) {
	keys := []string{productListKey}
	for _, id := range ids {
		keys = append(keys, productKeyPrefix+id)
	}
	if err := cache.Delete(ctx, s.rdb, keys...); err != nil {
		logrus.WithError(err).Warn("product cache invalidation failed")
	}
}

var sampleProducts = []models.Product{
	{
		Name:        "Smartphone X1",
		Description: "Latest smartphone with high-resolution camera and fast processor",
		Price:       799.99,
		Category:    "Electronics",
		Image:       models.DefaultProductImage,
		Stock:       25,
		SKU:         "ELEC001",
	},
	{
		Name:        "Classic T-Shirt",
		Description: "Comfortable cotton t-shirt available in multiple colors",
		Price:       24.99,
		Category:    "Clothing",
		Image:       models.DefaultProductImage,
		Stock:       100,
		SKU:         "CLTH001",
	},
	{
		Name:        "Office Desk",
		Description: "Modern office desk with ample storage space",
		Price:       349.99,
		Category:    "Furniture",
		Image:       models.DefaultProductImage,
		Stock:       10,
		SKU:         "FURN001",
	},
	{
		Name:        "Building Blocks Set",
		Description: "Educational building blocks for children aged 3+",
		Price:       29.99,
		Category:    "Toys",
		Image:       models.DefaultProductImage,
		Stock:       50,
		SKU:         "TOY001",
	},
	{
		Name:        "Silver Pendant",
		Description: "Elegant silver pendant with cubic zirconia",
		Price:       99.99,
		Category:    "Jewelry",
		Image:       models.DefaultProductImage,
		Stock:       15,
		SKU:         "JWL001",
	},
}
