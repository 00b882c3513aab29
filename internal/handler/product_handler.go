package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"warung-service/internal/model"
	"warung-service/pkg/logger"
	"warung-service/prometheus"
)

const placeholderImageURL = "https://via.placeholder.com/400"

// maxUploadSize caps product images at 5 MB, same as the panel enforces.
const maxUploadSize = 5 << 20

// ProductHandler serves the public catalog and the admin product CRUD.
type ProductHandler struct {
	db        *gorm.DB
	uploadDir string
}

func NewProductHandler(db *gorm.DB, uploadDir string) *ProductHandler {
	return &ProductHandler{db: db, uploadDir: uploadDir}
}

// List handles GET /api/products with an optional ?kategori= filter.
// Public: this is the storefront catalog.
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	query := h.db.Preload("Mitra").Order("created_at DESC")
	if kategori := c.QueryParam("kategori"); kategori != "" {
		query = query.Where("kategori = ?", kategori)
	}

	var products []model.Product
	defer prometheus.TrackDBOperation("query")(time.Now())
	if err := query.Find(&products).Error; err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Error server",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    products,
	})
}

// Create handles POST /api/products (admin, multipart). The image can
// arrive as an uploaded file or as an imageUrl field; without either
// the product gets a placeholder.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	nama := strings.TrimSpace(c.FormValue("nama"))
	kategori := strings.TrimSpace(c.FormValue("kategori"))
	hargaStr := c.FormValue("harga")
	if nama == "" || hargaStr == "" || kategori == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Data wajib diisi",
		})
	}
	harga, err := strconv.Atoi(hargaStr)
	if err != nil || harga < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Harga tidak valid",
		})
	}

	stok, _ := strconv.Atoi(c.FormValue("stok"))
	isUnlimited := c.FormValue("isUnlimited") == "true"

	var mitraID *uint
	if v := c.FormValue("mitraId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Mitra tidak valid",
			})
		}
		u := uint(id)
		mitraID = &u
	}

	imageURL := strings.TrimSpace(c.FormValue("imageUrl"))
	if file, err := c.FormFile("image"); err == nil {
		imageURL, err = h.saveImage(c, file)
		if err != nil {
			log.Error("Failed to store product image", zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Gagal menyimpan gambar",
			})
		}
	}
	if imageURL == "" {
		imageURL = placeholderImageURL
	}

	product := model.Product{
		Nama:        nama,
		Harga:       harga,
		Deskripsi:   c.FormValue("deskripsi"),
		Kategori:    kategori,
		ImageURL:    imageURL,
		Stok:        stok,
		IsUnlimited: isUnlimited,
		MitraID:     mitraID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&product).Error; err != nil {
		log.Error("Failed to create product", zap.String("nama", nama), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal menambah produk",
		})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("nama", product.Nama),
		zap.String("kategori", product.Kategori))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Produk ditambahkan",
		"data":    product,
	})
}

// Delete handles DELETE /api/products/:id (admin). The id is parsed
// before it reaches the store; a non-numeric id is a 404, never a
// query condition.
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Produk tidak ditemukan",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Delete(&model.Product{}, uint(id))
	if result.Error != nil {
		log.Error("Failed to delete product", zap.Uint64("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal menghapus",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Produk tidak ditemukan",
		})
	}

	log.Info("Product deleted", zap.Uint64("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Produk dihapus",
	})
}

// saveImage stores an uploaded image under the uploads dir with a
// uuid-based name and returns its public URL.
func (h *ProductHandler) saveImage(c echo.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file too large: %d bytes", file.Size)
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", fmt.Errorf("not an image: %s", file.Header.Get("Content-Type"))
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s://%s/uploads/%s", c.Scheme(), c.Request().Host, name), nil
}
