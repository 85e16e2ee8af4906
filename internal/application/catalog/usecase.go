// Package catalog implementa el CRUD del catálogo de productos. El catálogo es
// un colaborador del motor de stock: aquí no se toca el libro de movimientos.
package catalog

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// UseCase operaciones del catálogo.
type UseCase struct {
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(productRepo repository.ProductRepository) *UseCase {
	return &UseCase{productRepo: productRepo}
}

// CreateInput alta de producto. FishType queda invariante tras la creación.
type CreateInput struct {
	Name         string
	Format       string
	EAN          string
	FishType     string
	UnitsPerTray int
	ImagePath    string
}

// Create valida y persiste un producto nuevo (activo).
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	fishType := strings.ToUpper(strings.TrimSpace(input.FishType))
	if name == "" || fishType == "" || strings.TrimSpace(input.Format) == "" ||
		strings.TrimSpace(input.EAN) == "" || input.UnitsPerTray <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Format:       strings.TrimSpace(input.Format),
		EAN:          strings.TrimSpace(input.EAN),
		FishType:     fishType,
		UnitsPerTray: input.UnitsPerTray,
		ImagePath:    strings.TrimSpace(input.ImagePath),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateInput campos de presentación editables. El fish_type no se toca:
// los lotes existentes dependen de él.
type UpdateInput struct {
	Name         string
	Format       string
	EAN          string
	UnitsPerTray int
	ImagePath    string
}

// Update modifica los campos de presentación de un producto existente.
func (uc *UseCase) Update(ctx context.Context, id string, input UpdateInput) (*entity.Product, error) {
	if strings.TrimSpace(input.Name) == "" || input.UnitsPerTray <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Format = strings.TrimSpace(input.Format)
	product.EAN = strings.TrimSpace(input.EAN)
	product.UnitsPerTray = input.UnitsPerTray
	if path := strings.TrimSpace(input.ImagePath); path != "" {
		product.ImagePath = path
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID devuelve un producto o domain.ErrNotFound.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos con stock agregado y lote FEFO más urgente.
// La búsqueda ignora acentos y mayúsculas (ver FoldSearchTerm).
func (uc *UseCase) List(ctx context.Context, query, fishType string, includeArchived bool) ([]*entity.ProductStock, error) {
	return uc.productRepo.ListWithStock(repository.ProductFilter{
		Query:           FoldSearchTerm(query),
		FishType:        strings.ToUpper(strings.TrimSpace(fishType)),
		IncludeArchived: includeArchived,
	})
}

// Archive marca el producto como archivado. No borra nada: el libro y los
// lotes del producto se conservan íntegros.
func (uc *UseCase) Archive(ctx context.Context, id string) error {
	return uc.setActive(id, false)
}

// Restore reactiva un producto archivado.
func (uc *UseCase) Restore(ctx context.Context, id string) error {
	return uc.setActive(id, true)
}

func (uc *UseCase) setActive(id string, active bool) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.SetActive(id, active)
}

// foldTransformer descompone, elimina marcas diacríticas y recompone.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldSearchTerm normaliza un término de búsqueda: minúsculas y sin acentos,
// de modo que "boquerón" y "BOQUERON" encuentren lo mismo. El lado SQL aplica
// unaccent(lower(...)) sobre las columnas para que ambos mundos coincidan.
func FoldSearchTerm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}
