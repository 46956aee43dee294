package services

import (
	"context"
	"errors"
	"log"
	"time"

	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

// DefaultReconcileGrace leaves in-flight checkouts alone.
const DefaultReconcileGrace = 2 * time.Minute

// Reconciler repairs orders that a non-transactional checkout left unlinked.
type Reconciler struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	grace  time.Duration
	now    func() time.Time
}

type ReconcileReport struct {
	Scanned  int `json:"scanned"`
	Linked   int `json:"linked"`
	Orphaned int `json:"orphaned"`
}

func NewReconciler(orders repository.OrderRepository, users repository.UserRepository) *Reconciler {
	return &Reconciler{orders: orders, users: users, grace: DefaultReconcileGrace, now: time.Now}
}

// ReconcileOrphans links every old enough order missing from its user's
// order list. Orders whose user no longer exists are marked Orphaned.
func (r *Reconciler) ReconcileOrphans(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	orders, err := r.orders.GetCreatedBefore(ctx, r.now().Add(-r.grace))
	if err != nil {
		return report, err
	}

	users := make(map[string]*models.User)
	for _, o := range orders {
		report.Scanned++
		if o.Status == models.OrderStatusOrphaned {
			continue
		}

		user, seen := users[o.UserID]
		if !seen {
			user, err = r.users.GetByID(ctx, o.UserID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return report, err
			}
			users[o.UserID] = user
		}

		switch {
		case user == nil:
			if err := r.orders.UpdateStatus(ctx, o.ID, models.OrderStatusOrphaned); err != nil {
				return report, err
			}
			report.Orphaned++
		case !user.HasOrder(o.ID):
			if err := r.users.AppendOrder(ctx, user.ID, o.ID); err != nil {
				return report, err
			}
			user.Orders = append(user.Orders, o.ID)
			report.Linked++
		}
	}
	return report, nil
}

// Run sweeps every interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Order reconciler stopped")
			return
		case <-ticker.C:
			report, err := r.ReconcileOrphans(ctx)
			if err != nil {
				log.Printf("❌ Order reconciliation failed: %v", err)
				continue
			}
			if report.Linked > 0 || report.Orphaned > 0 {
				log.Printf("🔧 Reconciled orders: %d linked, %d orphaned", report.Linked, report.Orphaned)
			}
		}
	}
}
