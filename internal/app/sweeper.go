package app

import (
	"context"
	"time"
)

// RunHoldSweeper periodically reclaims expired seat holds and cancels stale
// pending bookings. Reclamation is a safety net: reads already skip expired
// holds, the sweeper just keeps the membership sets from growing unbounded.
func (app *Application) RunHoldSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.Hold.SweepInterval)
	defer ticker.Stop()

	app.logger.Info("hold sweeper started", "interval", app.config.Hold.SweepInterval)

	for {
		select {
		case <-ctx.Done():
			app.logger.Info("hold sweeper stopped")
			return
		case <-ticker.C:
			app.sweepOnce(ctx)
		}
	}
}

func (app *Application) sweepOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	showtimeIds, err := app.inventory.ActiveShowtimes(sweepCtx)
	if err != nil {
		app.logger.Error("sweeper failed to list active showtimes", "error", err)
		return
	}

	for _, showtimeId := range showtimeIds {
		if err := app.inventory.ReclaimExpired(sweepCtx, showtimeId); err != nil {
			app.logger.Error("sweeper failed to reclaim expired holds",
				"showtime_id", showtimeId, "error", err)
		}
	}

	app.cancelStaleBookings(sweepCtx)
}

// cancelStaleBookings cancels pending bookings old enough that their hold
// must have expired, typically left behind by a crash mid-checkout.
func (app *Application) cancelStaleBookings(ctx context.Context) {
	cutoff := time.Now().Add(-(app.config.Hold.TTL + app.config.Hold.SweepInterval))

	bookingIds, err := app.bookingRepo.GetStalePendingIds(ctx, cutoff)
	if err != nil {
		app.logger.Error("sweeper failed to list stale pending bookings", "error", err)
		return
	}

	for _, bookingId := range bookingIds {
		if err := app.bookingRepo.Cancel(ctx, bookingId); err != nil {
			app.logger.Error("sweeper failed to cancel stale booking",
				"booking_id", bookingId, "error", err)
			continue
		}

		app.logger.Info("cancelled stale pending booking", "booking_id", bookingId)
	}
}
