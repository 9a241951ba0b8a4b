package products

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dukaan/apperr"
	"dukaan/models"
	"dukaan/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Catalog resolves product ids to live catalog rows. Order creation uses it
// to snapshot price/name/image/sku at purchase time.
type Catalog struct {
	coll *mongo.Collection
}

func NewCatalog(coll *mongo.Collection) *Catalog {
	return &Catalog{coll: coll}
}

// Find returns the product or a not-found error carrying the id.
func (c *Catalog) Find(ctx context.Context, productID string) (models.Product, error) {
	var product models.Product
	err := c.coll.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, &apperr.ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// Handler exposes read-only catalog lookups to the storefront.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := h.catalog.Find(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, apperr.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}
