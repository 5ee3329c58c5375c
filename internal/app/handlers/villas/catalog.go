package villas

import (
	"context"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/dto"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/queries"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

const (
	catalogKey = "villas.catalog"
	detailKey  = "villas.detail"
)

type CatalogQuery struct {
	MinGuests    int
	MaxRateCents int64
	PoolOnly     bool
}

func (q CatalogQuery) Key() string { return catalogKey }

type CatalogResult struct {
	Items []dto.VillaSummary `json:"items"`
}

type CatalogHandler struct {
	UoWFactory uow.Factory
}

func (h *CatalogHandler) Handle(ctx context.Context, q CatalogQuery) (CatalogResult, error) {
	unit, err := readUnit(ctx, h.UoWFactory)
	if err != nil {
		return CatalogResult{}, err
	}
	items, err := unit.Villas().List(ctx, domainvilla.ListFilter{
		OnlyAvailable: true,
		MinGuests:     q.MinGuests,
		MaxRateCents:  q.MaxRateCents,
		PoolOnly:      q.PoolOnly,
	})
	if err != nil {
		return CatalogResult{}, err
	}
	out := CatalogResult{Items: make([]dto.VillaSummary, 0, len(items))}
	for _, v := range items {
		out.Items = append(out.Items, dto.MapVillaSummary(v))
	}
	return out, nil
}

type DetailQuery struct {
	Slug string
}

func (q DetailQuery) Key() string { return detailKey }

type DetailHandler struct {
	UoWFactory uow.Factory
}

func (h *DetailHandler) Handle(ctx context.Context, q DetailQuery) (dto.VillaDetail, error) {
	unit, err := readUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.VillaDetail{}, err
	}
	v, err := unit.Villas().BySlug(ctx, q.Slug)
	if err != nil {
		return dto.VillaDetail{}, err
	}
	return dto.MapVillaDetail(v), nil
}

func readUnit(ctx context.Context, factory uow.Factory) (uow.UnitOfWork, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, nil
	}
	if factory == nil {
		return nil, uow.ErrUnitOfWorkMissing
	}
	return factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
}

var (
	_ queries.Handler[CatalogQuery, CatalogResult]  = (*CatalogHandler)(nil)
	_ queries.Handler[DetailQuery, dto.VillaDetail] = (*DetailHandler)(nil)
)
