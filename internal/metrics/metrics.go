// Package metrics exposes Prometheus counters for the client core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignInAttempts counts sign-in outcomes, labelled by result
	// ("ok" or "error").
	SignInAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "profilesync",
		Name:      "sign_in_attempts_total",
		Help:      "Sign-in attempts by result.",
	}, []string{"result"})

	// ProfileSaves counts profile upserts by result.
	ProfileSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "profilesync",
		Name:      "profile_saves_total",
		Help:      "Profile upserts by result.",
	}, []string{"result"})

	// AvatarUploads counts avatar uploads by result ("ok", "canceled",
	// "error").
	AvatarUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "profilesync",
		Name:      "avatar_uploads_total",
		Help:      "Avatar uploads by result.",
	}, []string{"result"})

	// AvatarDownloads counts avatar download attempts by result. Failed
	// downloads are absorbed by the transfer layer, so this counter is the
	// only place they remain visible.
	AvatarDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "profilesync",
		Name:      "avatar_downloads_total",
		Help:      "Avatar download attempts by result.",
	}, []string{"result"})

	// TokenRefreshes counts background token renewals.
	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "profilesync",
		Name:      "token_refreshes_total",
		Help:      "Background token renewals.",
	})
)

const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultCanceled = "canceled"
)
