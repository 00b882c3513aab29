package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"warung-service/internal/model"
	"warung-service/pkg/logger"
	"warung-service/prometheus"
)

// MitraHandler serves the admin-only mitra CRUD.
type MitraHandler struct {
	db *gorm.DB
}

func NewMitraHandler(db *gorm.DB) *MitraHandler {
	return &MitraHandler{db: db}
}

// List handles GET /api/mitra (admin), products included.
func (h *MitraHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var mitras []model.Mitra
	defer prometheus.TrackDBOperation("query")(time.Now())
	if err := h.db.Preload("Products").Order("created_at DESC").Find(&mitras).Error; err != nil {
		log.Error("Failed to list mitra", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal ambil data mitra",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    mitras,
	})
}

// Create handles POST /api/mitra (admin).
func (h *MitraHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Nama       string `json:"nama"`
		NoHp       string `json:"noHp"`
		Alamat     string `json:"alamat"`
		PersenBagi int    `json:"persenBagi"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Permintaan tidak valid",
		})
	}

	if strings.TrimSpace(req.Nama) == "" || strings.TrimSpace(req.NoHp) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Nama dan No HP wajib diisi",
		})
	}

	persenBagi := req.PersenBagi
	if persenBagi == 0 {
		persenBagi = model.DefaultPersenBagi
	}
	if persenBagi < 1 || persenBagi > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Persen bagi harus di antara 1 dan 100",
		})
	}

	mitra := model.Mitra{
		Nama:       req.Nama,
		NoHp:       req.NoHp,
		Alamat:     req.Alamat,
		PersenBagi: persenBagi,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&mitra).Error; err != nil {
		log.Error("Failed to create mitra", zap.String("nama", req.Nama), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal tambah mitra",
		})
	}

	log.Info("Mitra created", zap.Uint("mitra_id", mitra.ID), zap.String("nama", mitra.Nama))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Mitra berhasil ditambahkan",
		"data":    mitra,
	})
}

// Delete handles DELETE /api/mitra/:id (admin). Products keep their
// rows; their mitra reference simply dangles to a soft-deleted record.
// The id is parsed before it reaches the store; a non-numeric id is a
// 404, never a query condition.
func (h *MitraHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Mitra tidak ditemukan",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Delete(&model.Mitra{}, uint(id))
	if result.Error != nil {
		log.Error("Failed to delete mitra", zap.Uint64("mitra_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal hapus mitra. Pastikan produk sudah dihapus dulu.",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Mitra tidak ditemukan",
		})
	}

	log.Info("Mitra deleted", zap.Uint64("mitra_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Mitra dihapus",
	})
}
