package usecase

import (
	"context"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
)

const (
	// допустимое расстояние Левенштейна для имен, городов и улиц
	nameMaxDistance = 3
	// номера домов и квартир короткие, для них только одна правка
	numberMaxDistance = 1
)

func queryWords(matcher port.FuzzyMatcherPort, query string) ([]string, error) {
	words := matcher.Words(query)
	if len(words) == 0 {
		verr := domain.NewValidationError()
		verr.Add("query", "query parameter is required")
		return nil, verr
	}
	return words, nil
}

type SearchClientsUseCase struct {
	repo    port.ClientRepositoryPort
	matcher port.FuzzyMatcherPort
}

func NewSearchClientsUseCase(repo port.ClientRepositoryPort, matcher port.FuzzyMatcherPort) *SearchClientsUseCase {
	return &SearchClientsUseCase{repo: repo, matcher: matcher}
}

func (uc *SearchClientsUseCase) Execute(ctx context.Context, query string) ([]domain.Client, error) {
	words, err := queryWords(uc.matcher, query)
	if err != nil {
		return nil, err
	}
	all, err := uc.repo.List(ctx, domain.NoFilter{})
	if err != nil {
		return nil, err
	}

	found := make([]domain.Client, 0)
	for i := range all {
		if uc.matcher.MatchAny(words, all[i].NameParts(), nameMaxDistance) {
			found = append(found, all[i])
		}
	}
	contextkeys.LoggerFromContext(ctx).Debug("Clients search finished", port.Fields{
		"use_case": "SearchClients", "query": query, "found": len(found),
	})
	return found, nil
}

type SearchRealtorsUseCase struct {
	repo    port.RealtorRepositoryPort
	matcher port.FuzzyMatcherPort
}

func NewSearchRealtorsUseCase(repo port.RealtorRepositoryPort, matcher port.FuzzyMatcherPort) *SearchRealtorsUseCase {
	return &SearchRealtorsUseCase{repo: repo, matcher: matcher}
}

func (uc *SearchRealtorsUseCase) Execute(ctx context.Context, query string) ([]domain.Realtor, error) {
	words, err := queryWords(uc.matcher, query)
	if err != nil {
		return nil, err
	}
	all, err := uc.repo.List(ctx, domain.NoFilter{})
	if err != nil {
		return nil, err
	}

	found := make([]domain.Realtor, 0)
	for i := range all {
		if uc.matcher.MatchAny(words, all[i].NameParts(), nameMaxDistance) {
			found = append(found, all[i])
		}
	}
	contextkeys.LoggerFromContext(ctx).Debug("Realtors search finished", port.Fields{
		"use_case": "SearchRealtors", "query": query, "found": len(found),
	})
	return found, nil
}

type SearchDealsUseCase struct {
	repo    port.DealRepositoryPort
	matcher port.FuzzyMatcherPort
}

func NewSearchDealsUseCase(repo port.DealRepositoryPort, matcher port.FuzzyMatcherPort) *SearchDealsUseCase {
	return &SearchDealsUseCase{repo: repo, matcher: matcher}
}

func (uc *SearchDealsUseCase) Execute(ctx context.Context, query string) ([]domain.Deal, error) {
	words, err := queryWords(uc.matcher, query)
	if err != nil {
		return nil, err
	}
	all, err := uc.repo.List(ctx, domain.NoFilter{})
	if err != nil {
		return nil, err
	}

	found := make([]domain.Deal, 0)
	for i := range all {
		if uc.matcher.MatchAny(words, dealSearchValues(&all[i]), nameMaxDistance) {
			found = append(found, all[i])
		}
	}
	return found, nil
}

// dealSearchValues - имена всех участников и адрес объекта
func dealSearchValues(d *domain.Deal) []string {
	var values []string
	if d.Need != nil {
		if d.Need.Client != nil {
			values = append(values, d.Need.Client.NameParts()...)
		}
		if d.Need.Realtor != nil {
			values = append(values, d.Need.Realtor.NameParts()...)
		}
	}
	if d.Offer != nil {
		if d.Offer.Client != nil {
			values = append(values, d.Offer.Client.NameParts()...)
		}
		if d.Offer.Realtor != nil {
			values = append(values, d.Offer.Realtor.NameParts()...)
		}
		if d.Offer.Property != nil {
			city, street, house, apartment := d.Offer.Property.AddressParts()
			values = append(values, city, street, house, apartment)
		}
	}
	return values
}

type SearchPropertiesByAddressUseCase struct {
	repo    port.PropertyRepositoryPort
	matcher port.FuzzyMatcherPort
}

func NewSearchPropertiesByAddressUseCase(repo port.PropertyRepositoryPort, matcher port.FuzzyMatcherPort) *SearchPropertiesByAddressUseCase {
	return &SearchPropertiesByAddressUseCase{repo: repo, matcher: matcher}
}

func (uc *SearchPropertiesByAddressUseCase) Execute(ctx context.Context, query string) ([]domain.Property, error) {
	words, err := queryWords(uc.matcher, query)
	if err != nil {
		return nil, err
	}
	all, err := uc.repo.List(ctx, domain.PropertyFilter{})
	if err != nil {
		return nil, err
	}

	found := make([]domain.Property, 0)
	for i := range all {
		city, street, house, apartment := all[i].AddressParts()
		if uc.matcher.MatchAny(words, []string{city, street}, nameMaxDistance) ||
			uc.matcher.MatchAny(words, []string{house, apartment}, numberMaxDistance) {
			found = append(found, all[i])
		}
	}
	return found, nil
}

type SearchPropertiesInRegionUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewSearchPropertiesInRegionUseCase(repo port.PropertyRepositoryPort) *SearchPropertiesInRegionUseCase {
	return &SearchPropertiesInRegionUseCase{repo: repo}
}

func (uc *SearchPropertiesInRegionUseCase) Execute(ctx context.Context, vertices []domain.Point) ([]domain.Property, error) {
	polygon, err := domain.NewPolygon(vertices)
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("coordinates", err.Error())
		return nil, verr
	}

	candidates, err := uc.repo.FindInBoundingBox(ctx, polygon.BoundingBox())
	if err != nil {
		return nil, err
	}

	found := make([]domain.Property, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		if p.HasCoordinates() && polygon.Contains(domain.Point{Lat: *p.Latitude, Lon: *p.Longitude}) {
			found = append(found, *p)
		}
	}
	contextkeys.LoggerFromContext(ctx).Debug("Region search finished", port.Fields{
		"use_case": "SearchPropertiesInRegion", "candidates": len(candidates), "found": len(found),
	})
	return found, nil
}
