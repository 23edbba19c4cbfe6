package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	"comparaparqueaderos/internal/observability"
	"comparaparqueaderos/internal/repository"
	"comparaparqueaderos/internal/utils"
)

const (
	SortCheapest = "cheapest"
	SortClosest  = "closest"
	SortBest     = "best"
)

// OfferCache stores listing rows per filter. A miss is (nil, false, nil).
type OfferCache interface {
	GetOffers(ctx context.Context, key string) ([]db.ParkingOffer, bool, error)
	SetOffers(ctx context.Context, key string, offers []db.ParkingOffer) error
}

// Stay is the optional date/time window of a search or quote.
type Stay struct {
	EntryDate string
	EntryTime string
	ExitDate  string
	ExitTime  string
}

func (s Stay) empty() bool {
	return s.EntryDate == "" && s.EntryTime == "" && s.ExitDate == "" && s.ExitTime == ""
}

// billableDays bills one day when no window is given; a partial or
// malformed window is rejected.
func (s Stay) billableDays() (int, error) {
	s = Stay{
		EntryDate: strings.TrimSpace(s.EntryDate),
		EntryTime: strings.TrimSpace(s.EntryTime),
		ExitDate:  strings.TrimSpace(s.ExitDate),
		ExitTime:  strings.TrimSpace(s.ExitTime),
	}
	if s.empty() {
		return 1, nil
	}
	entry, exit, err := parseStay(s.EntryDate, s.EntryTime, s.ExitDate, s.ExitTime)
	if err != nil {
		return 0, err
	}
	return BillableDays(entry, exit), nil
}

type SearchParams struct {
	CityID    string
	AirportID string
	Vehicle   string
	Sort      string
	Stay
}

type SearchService struct {
	offers repository.OfferRepository
	cache  OfferCache
	logger *slog.Logger
}

// NewSearchService builds the listing service. cache may be nil.
func NewSearchService(offers repository.OfferRepository, cache OfferCache, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{offers: offers, cache: cache, logger: logger}
}

func (s *SearchService) ListCities(ctx context.Context) ([]db.City, error) {
	return s.offers.ListCities(ctx)
}

func (s *SearchService) ListAirports(ctx context.Context, cityID string) ([]db.Airport, error) {
	return s.offers.ListAirports(ctx, cityID)
}

// SearchOffers lists active offers for an airport or a city, each with a
// quote for the requested stay.
func (s *SearchService) SearchOffers(ctx context.Context, p SearchParams) ([]entities.OfferResult, error) {
	filter := repository.OfferFilter{
		CityID:    strings.TrimSpace(p.CityID),
		AirportID: strings.TrimSpace(p.AirportID),
	}
	if filter.CityID == "" && filter.AirportID == "" {
		return nil, invalid("airport_id", "indica un aeropuerto o una ciudad")
	}
	if v := strings.TrimSpace(p.Vehicle); v != "" {
		code, err := utils.NormalizeVehicleType(v)
		if err != nil {
			return nil, invalid("vehiculo", "tipo de vehículo inválido: %q", v)
		}
		filter.Vehicle = code
	}
	sortBy, err := normalizeSort(p.Sort)
	if err != nil {
		return nil, err
	}
	days, err := p.Stay.billableDays()
	if err != nil {
		return nil, err
	}

	offers, err := s.loadOffers(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]entities.OfferResult, 0, len(offers))
	for _, offer := range offers {
		quote, err := BuildQuote(offer, days)
		if err != nil {
			s.logger.Warn("skipping offer with bad data", "offer_id", offer.ID, "error", err)
			continue
		}
		results = append(results, entities.OfferResult{Offer: offer, Quote: quote})
	}
	sortResults(results, sortBy)
	return results, nil
}

// QuoteOffer prices one active offer for the stay.
func (s *SearchService) QuoteOffer(ctx context.Context, offerID string, stay Stay) (entities.OfferResult, error) {
	days, err := stay.billableDays()
	if err != nil {
		return entities.OfferResult{}, err
	}
	offer, err := s.offers.GetOffer(ctx, strings.TrimSpace(offerID))
	if errors.Is(err, repository.ErrNotFound) {
		return entities.OfferResult{}, fmt.Errorf("%w: %w", ErrOfferUnavailable, err)
	}
	if err != nil {
		return entities.OfferResult{}, err
	}
	if !offer.IsActive {
		return entities.OfferResult{}, fmt.Errorf("%w: offer %s is inactive", ErrOfferUnavailable, offer.ID)
	}
	quote, err := BuildQuote(*offer, days)
	if err != nil {
		return entities.OfferResult{}, err
	}
	return entities.OfferResult{Offer: *offer, Quote: quote}, nil
}

func (s *SearchService) loadOffers(ctx context.Context, filter repository.OfferFilter) ([]db.ParkingOffer, error) {
	key := filter.CacheKey()
	if s.cache != nil {
		offers, ok, err := s.cache.GetOffers(ctx, key)
		if err != nil {
			s.logger.Warn("offer cache read failed", "key", key, "error", err)
		} else if ok {
			observability.OfferCacheHits.Inc()
			return offers, nil
		}
		observability.OfferCacheMisses.Inc()
	}

	offers, err := s.offers.SearchOffers(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetOffers(ctx, key, offers); err != nil {
			s.logger.Warn("offer cache write failed", "key", key, "error", err)
		}
	}
	return offers, nil
}

func normalizeSort(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", SortCheapest:
		return SortCheapest, nil
	case SortClosest:
		return SortClosest, nil
	case SortBest:
		return SortBest, nil
	default:
		return "", invalid("sort", "orden inválido: %q", v)
	}
}

// sortResults orders in place. "best" has no ranking of its own yet and
// falls back to price.
func sortResults(results []entities.OfferResult, sortBy string) {
	switch sortBy {
	case SortClosest:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Offer.DistanceKm < results[j].Offer.DistanceKm
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Quote.TotalPrice < results[j].Quote.TotalPrice
		})
	}
}
