package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/ports"
)

const cleanupLeaseName = "credential-cleanup"

type CleanupConfig struct {
	Interval  time.Duration
	UsedGrace time.Duration
}

// CleanupResult counts the rows removed in one cycle.
type CleanupResult struct {
	RefreshTokens  int64
	OTPs           int64
	PasswordResets int64
}

func (r CleanupResult) Total() int64 {
	return r.RefreshTokens + r.OTPs + r.PasswordResets
}

// CleanupReaper purges expired and consumed credential rows. The next cycle is
// armed only after the current one returns, so cycles never overlap.
type CleanupReaper struct {
	refresh ports.RefreshTokenRepository
	otps    ports.OTPRepository
	resets  ports.PasswordResetRepository
	lease   ports.Lease
	log     logging.Logger

	interval  time.Duration
	usedGrace time.Duration
	now       func() time.Time
}

func NewCleanupReaper(refresh ports.RefreshTokenRepository, otps ports.OTPRepository, resets ports.PasswordResetRepository, log logging.Logger, cfg CleanupConfig) *CleanupReaper {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.UsedGrace < 0 {
		cfg.UsedGrace = 0
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &CleanupReaper{
		refresh:   refresh,
		otps:      otps,
		resets:    resets,
		log:       log.With("component", "cleanup"),
		interval:  cfg.Interval,
		usedGrace: cfg.UsedGrace,
		now:       time.Now,
	}
}

// WithLease makes instances sharing the lease store take turns per cycle.
func (r *CleanupReaper) WithLease(lease ports.Lease) *CleanupReaper {
	r.lease = lease
	return r
}

// Run blocks until ctx is cancelled.
func (r *CleanupReaper) Run(ctx context.Context) {
	r.log.Info(ctx, "cleanup reaper started", "interval", r.interval.String())
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info(ctx, "cleanup reaper stopped")
			return
		case <-timer.C:
			r.cycle(ctx)
			timer.Reset(r.interval)
		}
	}
}

func (r *CleanupReaper) cycle(ctx context.Context) {
	var token string
	if r.lease != nil {
		t, ok, err := r.lease.TryAcquire(ctx, cleanupLeaseName, r.leaseTTL())
		switch {
		case err != nil:
			r.log.Warn(ctx, "cleanup lease unavailable, running anyway", "error", err)
		case !ok:
			return
		default:
			token = t
		}
	}

	res, err := r.RunOnce(ctx)
	if err != nil {
		r.log.Error(ctx, "cleanup cycle failed", "error", err,
			"refresh_tokens", res.RefreshTokens, "otps", res.OTPs, "password_resets", res.PasswordResets)
		// Hand the period back so another instance can retry.
		if token != "" {
			if err := r.lease.Release(context.WithoutCancel(ctx), cleanupLeaseName, token); err != nil {
				r.log.Warn(ctx, "cleanup lease release failed", "error", err)
			}
		}
		return
	}
	r.log.Info(ctx, "cleanup cycle finished",
		"refresh_tokens", res.RefreshTokens, "otps", res.OTPs, "password_resets", res.PasswordResets)
}

// leaseTTL is a little under one period so the holder's next tick finds the
// lease free again.
func (r *CleanupReaper) leaseTTL() time.Duration {
	return r.interval * 9 / 10
}

// RunOnce performs the three deletions concurrently. Each one runs to
// completion even if another fails; the first error is returned alongside
// the counts that did succeed.
func (r *CleanupReaper) RunOnce(ctx context.Context) (CleanupResult, error) {
	now := r.now()
	usedBefore := now.Add(-r.usedGrace)

	var res CleanupResult
	var g errgroup.Group
	g.Go(func() error {
		n, err := r.refresh.DeleteExpiredOrRevoked(ctx, now)
		res.RefreshTokens = n
		return err
	})
	g.Go(func() error {
		n, err := r.otps.DeleteUsedOrExpired(ctx, now, usedBefore)
		res.OTPs = n
		return err
	})
	g.Go(func() error {
		n, err := r.resets.DeleteUsedOrExpired(ctx, now, usedBefore)
		res.PasswordResets = n
		return err
	})
	if err := g.Wait(); err != nil {
		return res, dependency(err)
	}
	return res, nil
}
