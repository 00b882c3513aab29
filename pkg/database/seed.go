package database

import (
	"gorm.io/gorm"

	"warung-service/internal/model"
)

// starterCatalog is the initial warung shelf, inserted on first boot so
// the storefront is not empty before the admin adds real products.
var starterCatalog = []model.Product{
	{Nama: "Beras Premium 5kg", Harga: 75000, Deskripsi: "Beras premium kualitas terbaik, pulen dan wangi", Kategori: "Sembako", ImageURL: "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=400", Stok: 50},
	{Nama: "Minyak Goreng 2L", Harga: 32000, Deskripsi: "Minyak goreng berkualitas untuk memasak sehari-hari", Kategori: "Sembako", ImageURL: "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5?w=400", Stok: 30},
	{Nama: "Gula Pasir 1kg", Harga: 15000, Deskripsi: "Gula pasir murni untuk kebutuhan dapur", Kategori: "Sembako", ImageURL: "https://images.unsplash.com/photo-1587149185964-7579e2181d43?w=400", Stok: 40},
	{Nama: "Telur Ayam 1kg", Harga: 28000, Deskripsi: "Telur ayam segar pilihan", Kategori: "Sembako", ImageURL: "https://images.unsplash.com/photo-1582722872445-44dc1f3e3132?w=400", Stok: 25},
	{Nama: "Chitato Rasa Sapi Panggang", Harga: 12000, Deskripsi: "Keripik kentang renyah rasa sapi panggang", Kategori: "Snack", ImageURL: "https://images.unsplash.com/photo-1566478989037-eec170784d0b?w=400", Stok: 60},
	{Nama: "Oreo Original", Harga: 9500, Deskripsi: "Biskuit sandwich coklat favorit keluarga", Kategori: "Snack", ImageURL: "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?w=400", Stok: 45},
	{Nama: "Tango Wafer Coklat", Harga: 5000, Deskripsi: "Wafer renyah dengan krim coklat lezat", Kategori: "Snack", ImageURL: "https://images.unsplash.com/photo-1609126431412-ef54f5c22c6f?w=400", Stok: 80},
	{Nama: "Teh Botol Sosro 450ml", Harga: 5000, Deskripsi: "Minuman teh manis segar dalam kemasan botol", Kategori: "Minuman", ImageURL: "https://images.unsplash.com/photo-1556679343-c7306c1976bc?w=400", Stok: 100},
	{Nama: "Aqua 600ml", Harga: 3500, Deskripsi: "Air mineral berkualitas untuk keluarga", Kategori: "Minuman", ImageURL: "https://images.unsplash.com/photo-1560493676-04071c5f467b?w=400", Stok: 120},
	{Nama: "Coca Cola 390ml", Harga: 6000, Deskripsi: "Minuman berkarbonasi rasa cola", Kategori: "Minuman", ImageURL: "https://images.unsplash.com/photo-1554866585-cd94860890b7?w=400", Stok: 70},
	{Nama: "Sabun Mandi Lifebuoy", Harga: 4500, Deskripsi: "Sabun mandi antiseptik untuk perlindungan keluarga", Kategori: "Sabun", ImageURL: "https://images.unsplash.com/photo-1585933646077-214f043f0c93?w=400", Stok: 50},
	{Nama: "Sabun Cuci Piring Sunlight", Harga: 8000, Deskripsi: "Sabun cuci piring dengan jeruk nipis", Kategori: "Sabun", ImageURL: "https://images.unsplash.com/photo-1563453392212-326f5e854473?w=400", Stok: 35},
	{Nama: "Detergen Rinso 800gr", Harga: 18000, Deskripsi: "Detergen bubuk untuk cucian bersih bersinar", Kategori: "Sabun", ImageURL: "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=400", Stok: 40},
}

// Seed inserts the starter catalog when the products table is empty.
func Seed(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	products := make([]model.Product, len(starterCatalog))
	copy(products, starterCatalog)
	if err := db.Create(&products).Error; err != nil {
		return 0, err
	}
	return len(products), nil
}
