package analytics

import (
	"context"

	"bookfair/database/repository"
	"bookfair/models"
)

// Aggregator derives occupancy and revenue from the catalog and the ledger's
// active index. Nothing is cached; every call recomputes.
type Aggregator struct {
	stalls  repository.StallRepository
	ledger  repository.Ledger
	vendors repository.VendorRepository
}

func NewAggregator(stalls repository.StallRepository, ledger repository.Ledger, vendors repository.VendorRepository) *Aggregator {
	return &Aggregator{stalls: stalls, ledger: ledger, vendors: vendors}
}

type snapshot struct {
	stalls []models.Stall
	index  map[string]models.ReservationStatus
}

func (a *Aggregator) snapshot(ctx context.Context) (snapshot, error) {
	stalls, err := a.stalls.GetAll(ctx)
	if err != nil {
		return snapshot{}, err
	}
	index, err := a.ledger.ActiveIndex(ctx)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{stalls: stalls, index: index}, nil
}

// OccupancyBySize groups stalls by size. Every size is present, even with no
// stalls.
func (a *Aggregator) OccupancyBySize(ctx context.Context) (map[models.StallSize]models.SizeOccupancy, error) {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return occupancy(snap), nil
}

func occupancy(snap snapshot) map[models.StallSize]models.SizeOccupancy {
	out := make(map[models.StallSize]models.SizeOccupancy, len(models.StallSizes))
	for _, size := range models.StallSizes {
		out[size] = models.SizeOccupancy{}
	}
	for _, st := range snap.stalls {
		occ := out[st.Size]
		occ.Total++
		switch snap.index[st.ID] {
		case models.StatusPending:
			occ.Pending++
			occ.Reserved++
		case models.StatusConfirmed:
			occ.Confirmed++
			occ.Reserved++
		}
		out[st.Size] = occ
	}
	for size, occ := range out {
		occ.Available = occ.Total - occ.Reserved
		occ.OccupancyRate = percent(occ.Reserved, occ.Total)
		out[size] = occ
	}
	return out
}

// RevenueBySize sums the prices of stalls held by confirmed reservations.
func (a *Aggregator) RevenueBySize(ctx context.Context) (models.RevenueReport, error) {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return models.RevenueReport{}, err
	}
	report := models.RevenueReport{BySize: make(map[models.StallSize]float64, len(models.StallSizes))}
	for _, size := range models.StallSizes {
		report.BySize[size] = 0
	}
	for _, st := range snap.stalls {
		if snap.index[st.ID] == models.StatusConfirmed {
			report.BySize[st.Size] += st.Price
			report.Total += st.Price
		}
	}
	return report, nil
}

// ReservationStats counts reservations in each status.
func (a *Aggregator) ReservationStats(ctx context.Context) (models.ReservationStats, error) {
	all, err := a.ledger.ListAll(ctx)
	if err != nil {
		return models.ReservationStats{}, err
	}
	stats := models.ReservationStats{Total: len(all)}
	for _, r := range all {
		switch r.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusConfirmed:
			stats.Confirmed++
		case models.StatusRejected:
			stats.Rejected++
		case models.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

// Dashboard is the staff overview. Its occupancy rate counts confirmed
// stalls only.
func (a *Aggregator) Dashboard(ctx context.Context) (models.Dashboard, error) {
	vendors, err := a.vendors.Count(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	stats, err := a.ReservationStats(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	snap, err := a.snapshot(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}

	d := models.Dashboard{
		TotalVendors:      vendors,
		TotalReservations: stats.Total,
		TotalStalls:       len(snap.stalls),
	}
	for _, st := range snap.stalls {
		switch snap.index[st.ID] {
		case models.StatusConfirmed:
			d.ConfirmedReservations++
		case models.StatusPending:
			d.PendingReservations++
		default:
			d.AvailableStalls++
		}
	}
	d.OccupancyRate = percent(d.ConfirmedReservations, d.TotalStalls)
	return d, nil
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
