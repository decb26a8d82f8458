// Package memory provides in-memory repository implementations used to
// test the moderation rule engine without a database.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/repository"
)

// Store keeps every entity in plain slices/maps guarded by one mutex.
// Repositories() adapts it to the repository.Store interface bundle.
type Store struct {
	mu            sync.Mutex
	ReportRows    []models.Report
	ActionRows    []models.ModerationAction
	Restrictions  []models.UserRestriction
	AlbumRows     map[uuid.UUID]models.Album
	TrackRows     map[uuid.UUID]models.Track
	Junction      []models.AlbumTrack
	UserRows      map[uuid.UUID]models.User
	PostRows      map[uuid.UUID]models.Post
	CommentRows   map[uuid.UUID]models.Comment
	Events        []models.SecurityEvent
	Notifications []models.Notification

	// FailNotifications makes the notification sink fail, for testing the
	// best-effort delivery path.
	FailNotifications bool

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		AlbumRows:   make(map[uuid.UUID]models.Album),
		TrackRows:   make(map[uuid.UUID]models.Track),
		UserRows:    make(map[uuid.UUID]models.User),
		PostRows:    make(map[uuid.UUID]models.Post),
		CommentRows: make(map[uuid.UUID]models.Comment),
		now:         time.Now,
	}
}

func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Reports:       reports{s},
		Actions:       actions{s},
		Restrictions:  restrictions{s},
		Albums:        albums{s},
		Tracks:        tracks{s},
		Users:         users{s},
		Owners:        owners{s},
		Events:        events{s},
		Notifications: notifications{s},
		Aggregates:    aggregates{s},
	}
}

// Seed helpers.

func (s *Store) AddUser(u models.User) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.UserRows[u.ID] = u
	return u.ID
}

func (s *Store) AddAlbum(a models.Album) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.AlbumRows[a.ID] = a
	return a.ID
}

// AddTrack seeds a track; a non-nil albumID also links it via the junction
// table.
func (s *Store) AddTrack(t models.Track, albumID uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	s.TrackRows[t.ID] = t
	if albumID != uuid.Nil {
		s.Junction = append(s.Junction, models.AlbumTrack{
			ID: uuid.New(), AlbumID: albumID, TrackID: t.ID, Position: len(s.Junction),
		})
	}
	return t.ID
}

func (s *Store) AddPost(p models.Post) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.PostRows[p.ID] = p
	return p.ID
}

func (s *Store) AddComment(c models.Comment) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.CommentRows[c.ID] = c
	return c.ID
}

type reports struct{ s *Store }

func (r reports) Create(report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = r.s.now()
	}
	r.s.ReportRows = append(r.s.ReportRows, *report)
	return nil
}

func (r reports) ByID(id uuid.UUID) (*models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.ReportRows {
		if r.s.ReportRows[i].ID == id {
			row := r.s.ReportRows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r reports) List(status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []models.Report
	for _, row := range r.s.ReportRows {
		if status == "" || row.Status == status {
			matched = append(matched, row)
		}
	}
	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r reports) RecentByReporterAndTarget(reporterID uuid.UUID, t models.ReportType, targetID uuid.UUID, since time.Time) (*models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var newest *models.Report
	for i := range r.s.ReportRows {
		row := r.s.ReportRows[i]
		if row.ReporterID == reporterID && row.ReportType == t && row.TargetID == targetID && !row.CreatedAt.Before(since) {
			if newest == nil || row.CreatedAt.After(newest.CreatedAt) {
				copied := row
				newest = &copied
			}
		}
	}
	return newest, nil
}

func (r reports) CountByReporterSince(reporterID uuid.UUID, since time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, row := range r.s.ReportRows {
		if row.ReporterID == reporterID && !row.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r reports) CountOpenByTarget(t models.ReportType, targetID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, row := range r.s.ReportRows {
		if row.ReportType == t && row.TargetID == targetID &&
			(row.Status == models.ReportStatusPending || row.Status == models.ReportStatusUnderReview) {
			count++
		}
	}
	return count, nil
}

func (r reports) CountByReportedUser(userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, row := range r.s.ReportRows {
		if row.ReportedUserID != nil && *row.ReportedUserID == userID {
			count++
		}
	}
	return count, nil
}

func (r reports) CountByType(t models.ReportType) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, row := range r.s.ReportRows {
		if row.ReportType == t {
			count++
		}
	}
	return count, nil
}

func (r reports) Resolve(id uuid.UUID, status models.ReportStatus, resolution string, resolvedBy uuid.UUID, resolvedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.ReportRows {
		if r.s.ReportRows[i].ID == id {
			r.s.ReportRows[i].Status = status
			r.s.ReportRows[i].Resolution = resolution
			r.s.ReportRows[i].ResolvedBy = &resolvedBy
			r.s.ReportRows[i].ResolvedAt = &resolvedAt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type actions struct{ s *Store }

func (a actions) Create(action *models.ModerationAction) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = a.s.now()
	}
	a.s.ActionRows = append(a.s.ActionRows, *action)
	return nil
}

func (a actions) ByID(id uuid.UUID) (*models.ModerationAction, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for i := range a.s.ActionRows {
		if a.s.ActionRows[i].ID == id {
			row := a.s.ActionRows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (a actions) ByTargetUser(userID uuid.UUID) ([]models.ModerationAction, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var out []models.ModerationAction
	for _, row := range a.s.ActionRows {
		if row.TargetUserID == userID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (a actions) RevokedByTargetUser(userID uuid.UUID) ([]models.ModerationAction, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var out []models.ModerationAction
	for _, row := range a.s.ActionRows {
		if row.TargetUserID == userID && row.RevokedAt != nil {
			out = append(out, row)
		}
	}
	sortRevokedDesc(out)
	return out, nil
}

func (a actions) RevokedByTarget(t models.ReportType, targetID uuid.UUID) ([]models.ModerationAction, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var out []models.ModerationAction
	for _, row := range a.s.ActionRows {
		if row.TargetType != nil && *row.TargetType == t &&
			row.TargetID != nil && *row.TargetID == targetID && row.RevokedAt != nil {
			out = append(out, row)
		}
	}
	sortRevokedDesc(out)
	return out, nil
}

func sortRevokedDesc(rows []models.ModerationAction) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RevokedAt.After(*rows[j].RevokedAt)
	})
}

func (a actions) All() ([]models.ModerationAction, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	out := make([]models.ModerationAction, len(a.s.ActionRows))
	copy(out, a.s.ActionRows)
	return out, nil
}

func (a actions) MarkRevoked(id uuid.UUID, revokedAt time.Time, revokedBy uuid.UUID, metadata datatypes.JSON) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for i := range a.s.ActionRows {
		if a.s.ActionRows[i].ID == id {
			if a.s.ActionRows[i].RevokedAt != nil {
				return repository.ErrActionRevoked
			}
			a.s.ActionRows[i].RevokedAt = &revokedAt
			a.s.ActionRows[i].RevokedBy = &revokedBy
			a.s.ActionRows[i].Metadata = metadata
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (a actions) UpdateFields(id uuid.UUID, fields map[string]any) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for i := range a.s.ActionRows {
		if a.s.ActionRows[i].ID == id {
			if a.s.ActionRows[i].RevokedAt != nil {
				return repository.ErrActionRevoked
			}
			if md, ok := fields["metadata"].(datatypes.JSON); ok {
				a.s.ActionRows[i].Metadata = md
			}
			if reason, ok := fields["reason"].(string); ok {
				a.s.ActionRows[i].Reason = reason
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (a actions) SetNotificationSent(id uuid.UUID) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for i := range a.s.ActionRows {
		if a.s.ActionRows[i].ID == id {
			if a.s.ActionRows[i].RevokedAt != nil {
				return repository.ErrActionRevoked
			}
			a.s.ActionRows[i].NotificationSent = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type restrictions struct{ s *Store }

func (r restrictions) Create(restriction *models.UserRestriction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if restriction.ID == uuid.Nil {
		restriction.ID = uuid.New()
	}
	restriction.CreatedAt = r.s.now()
	r.s.Restrictions = append(r.s.Restrictions, *restriction)
	return nil
}

func (r restrictions) DeactivateByAction(actionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Restrictions {
		if r.s.Restrictions[i].RelatedActionID == actionID {
			r.s.Restrictions[i].IsActive = false
		}
	}
	return nil
}

func (r restrictions) ActiveByUser(userID uuid.UUID) ([]models.UserRestriction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.UserRestriction
	for _, row := range r.s.Restrictions {
		if row.UserID == userID && row.IsActive {
			out = append(out, row)
		}
	}
	return out, nil
}

type albums struct{ s *Store }

func (a albums) ByID(id uuid.UUID) (*models.Album, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if row, ok := a.s.AlbumRows[id]; ok {
		return &row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (a albums) Delete(id uuid.UUID) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	delete(a.s.AlbumRows, id)
	return nil
}

func (a albums) DeleteJunction(albumID uuid.UUID) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	kept := a.s.Junction[:0]
	for _, j := range a.s.Junction {
		if j.AlbumID != albumID {
			kept = append(kept, j)
		}
	}
	a.s.Junction = kept
	return nil
}

type tracks struct{ s *Store }

func (t tracks) ByAlbum(albumID uuid.UUID) ([]models.Track, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var out []models.Track
	for _, j := range t.s.Junction {
		if j.AlbumID == albumID {
			if row, ok := t.s.TrackRows[j.TrackID]; ok {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (t tracks) DeleteMany(ids []uuid.UUID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, id := range ids {
		delete(t.s.TrackRows, id)
	}
	return nil
}

func (t tracks) CreatedSince(since *time.Time) ([]models.Track, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var out []models.Track
	for _, row := range t.s.TrackRows {
		if since == nil || !row.CreatedAt.Before(*since) {
			out = append(out, row)
		}
	}
	return out, nil
}

type users struct{ s *Store }

func (u users) ByID(id uuid.UUID) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if row, ok := u.s.UserRows[id]; ok {
		return &row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (u users) SetSuspension(id uuid.UUID, until *time.Time, reason string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	row, ok := u.s.UserRows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.IsSuspended = true
	row.SuspendedUntil = until
	row.SuspensionReason = reason
	u.s.UserRows[id] = row
	return nil
}

func (u users) ClearSuspension(id uuid.UUID) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	row, ok := u.s.UserRows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.IsSuspended = false
	row.SuspendedUntil = nil
	row.SuspensionReason = ""
	u.s.UserRows[id] = row
	return nil
}

type owners struct{ s *Store }

func (o owners) OwnerOf(t models.ReportType, targetID uuid.UUID) (uuid.UUID, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	switch t {
	case models.ReportTypeUser:
		return targetID, nil
	case models.ReportTypePost:
		if p, ok := o.s.PostRows[targetID]; ok {
			return p.OwnerID, nil
		}
	case models.ReportTypeComment:
		if c, ok := o.s.CommentRows[targetID]; ok {
			return c.OwnerID, nil
		}
	case models.ReportTypeTrack:
		if tr, ok := o.s.TrackRows[targetID]; ok {
			return tr.OwnerID, nil
		}
	case models.ReportTypeAlbum:
		if a, ok := o.s.AlbumRows[targetID]; ok {
			return a.OwnerID, nil
		}
	}
	return uuid.Nil, gorm.ErrRecordNotFound
}

type events struct{ s *Store }

func (e events) Append(event *models.SecurityEvent) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = e.s.now()
	e.s.Events = append(e.s.Events, *event)
	return nil
}

type notifications struct{ s *Store }

func (n notifications) Create(notification *models.Notification) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	if n.s.FailNotifications {
		return fmt.Errorf("memory: notification sink unavailable")
	}
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.CreatedAt = n.s.now()
	n.s.Notifications = append(n.s.Notifications, *notification)
	return nil
}

type aggregates struct{ s *Store }

func (a aggregates) ModerationCounts() (repository.AggregateCounts, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	counts := repository.AggregateCounts{
		TotalReports: int64(len(a.s.ReportRows)),
		TotalActions: int64(len(a.s.ActionRows)),
	}
	for _, r := range a.s.ReportRows {
		if r.Status == models.ReportStatusPending {
			counts.PendingReports++
		}
	}
	for _, r := range a.s.Restrictions {
		if r.IsActive {
			counts.ActiveRestrictions++
		}
	}
	return counts, nil
}
