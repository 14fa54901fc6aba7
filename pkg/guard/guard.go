package guard

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/tenantkit/pkg/audit"
)

// ActionTamperAttempt is the audit action recorded for every stripped field.
const ActionTamperAttempt = "tenant_field_tampering"

// DefaultProtectedFields are the tenant-identifying parameter spellings
// stripped when they disagree with the resolved tenant.
var DefaultProtectedFields = []string{"tenant_id", "tenant", "organization_id", "school_id"}

// Guard strips caller-supplied tenant-identifying fields that disagree
// with the server-resolved tenant, so downstream code can never observe
// a tampered value.
type Guard struct {
	protected []string
	auditor   *audit.Logger
	bypass    func(ctx context.Context) bool
}

// Option configures a Guard.
type Option func(*Guard)

// WithProtectedFields replaces the protected-field list.
func WithProtectedFields(fields []string) Option {
	return func(g *Guard) {
		if len(fields) > 0 {
			g.protected = fields
		}
	}
}

// WithBypass installs a predicate that exempts a request from
// stripping, typically the superadmin signal.
func WithBypass(fn func(ctx context.Context) bool) Option {
	return func(g *Guard) { g.bypass = fn }
}

// New creates a Guard emitting audit events through auditor.
func New(auditor *audit.Logger, opts ...Option) *Guard {
	if auditor == nil {
		panic("guard: audit logger cannot be nil")
	}
	g := &Guard{
		protected: DefaultProtectedFields,
		auditor:   auditor,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Apply removes from values, in place, every protected field whose
// value disagrees with tenantID, emitting one audit event per removal.
// It returns the names of the removed fields. Matching values and
// absent fields pass through untouched.
func (g *Guard) Apply(ctx context.Context, tenantID int64, values url.Values) []string {
	return g.apply(ctx, tenantID, values, true)
}

func (g *Guard) apply(ctx context.Context, tenantID int64, values url.Values, recordAudit bool, extra ...audit.EventOption) []string {
	if values == nil || tenantID <= 0 {
		return nil
	}
	if g.bypass != nil && g.bypass(ctx) {
		return nil
	}

	want := strconv.FormatInt(tenantID, 10)

	var removed []string
	for _, field := range g.protected {
		provided, ok := firstMismatch(values, field, want)
		if !ok {
			continue
		}
		// Removal has to hit the map the caller reads, not a copy.
		values.Del(field)
		removed = append(removed, field)

		if recordAudit {
			opts := append([]audit.EventOption{
				audit.WithField(field, provided),
				audit.WithActualTenantID(tenantID),
			}, extra...)
			_ = g.auditor.Log(ctx, ActionTamperAttempt, opts...)
		}
	}
	return removed
}

// Request applies the guard to everything the handler can read from r:
// the URL query, Form, and PostForm. The request is mutated directly;
// sanitizing a disconnected copy would leave the tampering live.
func (g *Guard) Request(ctx context.Context, tenantID int64, r *http.Request) []string {
	if r.Form == nil {
		// ParseForm populates both Form and PostForm; errors mean a
		// malformed body, which the handler will reject on its own.
		_ = r.ParseForm()
	}

	// Form is the merged view handlers read; only this pass records
	// audit events so one tampered field yields one record.
	removed := g.apply(ctx, tenantID, r.Form, true, audit.WithPath(r.URL.Path))
	g.apply(ctx, tenantID, r.PostForm, false)

	if q := r.URL.Query(); len(q) > 0 {
		if stripped := g.apply(ctx, tenantID, q, false); len(stripped) > 0 {
			r.URL.RawQuery = q.Encode()
		}
	}
	return removed
}

// firstMismatch reports the first value of field that differs from
// want. A field whose every value equals want is not a mismatch.
func firstMismatch(values url.Values, field, want string) (string, bool) {
	vs, ok := values[field]
	if !ok {
		return "", false
	}
	for _, v := range vs {
		if v != want {
			return v, true
		}
	}
	return "", false
}
