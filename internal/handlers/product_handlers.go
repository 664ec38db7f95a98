package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// defaultProductImage is used when the admin submits no image URL.
const defaultProductImage = "https://picsum.photos/seed/product/400/400"

// ProductInput defines the JSON for creating/updating a product.
type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	AdminPrice  float64 `json:"admin_price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Image       string  `json:"image"`
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.AdminPrice, &p.Stock, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProducts is the handler for GET /api/admin/products.
func (h *Handlers) GetProducts(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name, description, admin_price, stock, image FROM products ORDER BY id DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct is the handler for POST /api/admin/products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Image == "" {
		input.Image = defaultProductImage
	}

	result, err := h.DB.Exec(`
		INSERT INTO products (name, description, admin_price, stock, image)
		VALUES (?, ?, ?, ?, ?)`,
		input.Name, input.Description, input.AdminPrice, input.Stock, input.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	id, _ := result.LastInsertId()
	h.Hub.Broadcast("products")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateProduct is the handler for PUT /api/admin/products/:id.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE products SET name = ?, description = ?, admin_price = ?, stock = ?, image = ?
		WHERE id = ?`,
		input.Name, input.Description, input.AdminPrice, input.Stock, input.Image, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	h.Hub.Broadcast("products")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteProduct is the handler for DELETE /api/admin/products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	result, err := h.DB.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		// Orders reference products; the foreign key blocks deleting a
		// product that has been ordered.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a product with existing orders"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	h.Hub.Broadcast("products")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetAvailableProducts is the handler for GET /api/reseller/products.
// Resellers only browse what is in stock.
func (h *Handlers) GetAvailableProducts(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name, description, admin_price, stock, image FROM products WHERE stock > 0 ORDER BY id DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan products"})
		return
	}
	c.JSON(http.StatusOK, products)
}
