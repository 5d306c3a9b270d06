package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewMemoryStores returns process-local stores with the same semantics as the
// Mongo ones. Used by the tests and when MONGO_URI is not configured.
func NewMemoryStores() *Stores {
	return &Stores{
		History:     NewMemoryHistoryStore(),
		Preferences: NewMemoryPreferenceStore(),
		Reviews:     NewMemoryReviewStore(),
	}
}

var (
	_ HistoryStore    = (*MemoryHistoryStore)(nil)
	_ PreferenceStore = (*MemoryPreferenceStore)(nil)
	_ ReviewStore     = (*MemoryReviewStore)(nil)
)

type MemoryHistoryStore struct {
	mu      sync.RWMutex
	byOrder map[uint]models.OrderHistory
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{byOrder: make(map[uint]models.OrderHistory)}
}

func (s *MemoryHistoryStore) InsertSnapshot(_ context.Context, h *models.OrderHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byOrder[h.OrderID]; ok {
		return nil
	}
	doc := *h
	doc.ID = primitive.NewObjectID()
	doc.Lines = append([]models.HistoryLine(nil), h.Lines...)
	doc.CreatedAt = time.Now().UTC()
	doc.UpdatedAt = doc.CreatedAt
	s.byOrder[h.OrderID] = doc
	return nil
}

func (s *MemoryHistoryStore) UpdateStatus(_ context.Context, orderID uint, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.byOrder[orderID]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	doc.UpdatedAt = time.Now().UTC()
	s.byOrder[orderID] = doc
	return nil
}

func (s *MemoryHistoryStore) FindByOrder(_ context.Context, orderID uint) (*models.OrderHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.byOrder[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneHistory(doc)
	return &out, nil
}

// cloneHistory detaches a returned document from the stored one.
func cloneHistory(doc models.OrderHistory) models.OrderHistory {
	doc.Lines = append([]models.HistoryLine(nil), doc.Lines...)
	if doc.CustomerID != nil {
		id := *doc.CustomerID
		doc.CustomerID = &id
	}
	if doc.TableID != nil {
		id := *doc.TableID
		doc.TableID = &id
	}
	return doc
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func (s *MemoryHistoryStore) FindByCustomer(_ context.Context, customerID uint, f HistoryFilter) ([]models.OrderHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(f.DishName)
	out := []models.OrderHistory{}
	for _, doc := range s.byOrder {
		if doc.CustomerID == nil || *doc.CustomerID != customerID {
			continue
		}
		if !inRange(doc.OrderedAt, f.From, f.To) {
			continue
		}
		if needle != "" && !hasDish(doc, needle) {
			continue
		}
		out = append(out, cloneHistory(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderedAt.After(out[j].OrderedAt) })
	return out, nil
}

func hasDish(doc models.OrderHistory, needle string) bool {
	for _, l := range doc.Lines {
		if strings.Contains(strings.ToLower(l.DishName), needle) {
			return true
		}
	}
	return false
}

func (s *MemoryHistoryStore) ReplaceLines(_ context.Context, orderID uint, lines []models.HistoryLine) (*models.OrderHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.byOrder[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	doc.Lines = append([]models.HistoryLine(nil), lines...)
	doc.UpdatedAt = time.Now().UTC()
	s.byOrder[orderID] = doc
	out := cloneHistory(doc)
	return &out, nil
}

func (s *MemoryHistoryStore) TopDishes(_ context.Context, q DishStatsQuery) ([]DishStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := map[string]*DishStat{}
	for _, doc := range s.byOrder {
		if q.CustomerID != nil && (doc.CustomerID == nil || *doc.CustomerID != *q.CustomerID) {
			continue
		}
		if !inRange(doc.OrderedAt, q.From, q.To) {
			continue
		}
		for _, l := range doc.Lines {
			st, ok := totals[l.DishName]
			if !ok {
				st = &DishStat{Name: l.DishName}
				totals[l.DishName] = st
			}
			st.Quantity += l.Quantity
			st.Revenue += float64(l.Quantity) * l.UnitPrice
		}
	}

	stats := make([]DishStat, 0, len(totals))
	for _, st := range totals {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Quantity != stats[j].Quantity {
			return stats[i].Quantity > stats[j].Quantity
		}
		return stats[i].Name < stats[j].Name
	})
	if q.Limit > 0 && len(stats) > q.Limit {
		stats = stats[:q.Limit]
	}
	return stats, nil
}

type MemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs map[uint]models.Preference
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[uint]models.Preference)}
}

func (s *MemoryPreferenceStore) List(_ context.Context) ([]models.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Preference, 0, len(s.prefs))
	for _, p := range s.prefs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out, nil
}

func (s *MemoryPreferenceStore) Get(_ context.Context, customerID uint) (*models.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryPreferenceStore) Upsert(_ context.Context, customerID uint, patch PreferencePatch) (*models.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p, ok := s.prefs[customerID]
	if !ok {
		p = models.DefaultPreference(customerID)
		p.ID = primitive.NewObjectID()
		p.CreatedAt = now
	}
	if patch.Intolerances != nil {
		p.Intolerances = append([]string{}, *patch.Intolerances...)
	}
	if patch.PreferredStyles != nil {
		p.PreferredStyles = append([]string{}, *patch.PreferredStyles...)
	}
	p.LastUpdated = &now
	p.UpdatedAt = now
	s.prefs[customerID] = p
	return &p, nil
}

func (s *MemoryPreferenceStore) Delete(_ context.Context, customerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prefs[customerID]; !ok {
		return ErrNotFound
	}
	delete(s.prefs, customerID)
	return nil
}

type MemoryReviewStore struct {
	mu      sync.RWMutex
	reviews map[primitive.ObjectID]models.Review
}

func NewMemoryReviewStore() *MemoryReviewStore {
	return &MemoryReviewStore{reviews: make(map[primitive.ObjectID]models.Review)}
}

func (s *MemoryReviewStore) List(_ context.Context, f ReviewFilter) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Review{}
	for _, r := range s.reviews {
		if f.VisitType != "" && r.VisitType != f.VisitType {
			continue
		}
		if f.MinRating > 0 && r.Rating < f.MinRating {
			continue
		}
		if f.MaxRating > 0 && r.Rating > f.MaxRating {
			continue
		}
		if f.Dish != "" && !containsExact(r.Dishes, f.Dish) {
			continue
		}
		if f.CustomerID != nil && r.CustomerID != *f.CustomerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewedAt.After(out[j].ReviewedAt) })
	return out, nil
}

func containsExact(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Search scores a review by how many query terms appear in its comment or dishes.
func (s *MemoryReviewStore) Search(_ context.Context, query string) ([]models.Review, error) {
	terms := strings.Fields(strings.ToLower(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Review{}
	for _, r := range s.reviews {
		words := strings.Fields(strings.ToLower(r.Comment + " " + strings.Join(r.Dishes, " ")))
		score := 0.0
		for _, term := range terms {
			for _, w := range words {
				if strings.Trim(w, ".,;:!?¡¿\"'()") == term {
					score++
				}
			}
		}
		if score > 0 {
			r.Score = score
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *MemoryReviewStore) Get(_ context.Context, id string) (*models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryReviewStore) Create(_ context.Context, r *models.Review) error {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.ReviewedAt.IsZero() {
		r.ReviewedAt = now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.ID] = *r
	return nil
}

func (s *MemoryReviewStore) Update(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.ID]; !ok {
		return ErrNotFound
	}
	r.UpdatedAt = time.Now().UTC()
	s.reviews[r.ID] = *r
	return nil
}

func (s *MemoryReviewStore) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[oid]; !ok {
		return ErrNotFound
	}
	delete(s.reviews, oid)
	return nil
}

func (s *MemoryReviewStore) Stats(_ context.Context) (*ReviewStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &ReviewStats{ByVisitType: []VisitTypeCount{}}
	counts := map[models.VisitType]int{}
	sum := 0
	for _, r := range s.reviews {
		sum += r.Rating
		stats.General.Count++
		switch r.Rating {
		case 1:
			stats.General.Rating1++
		case 2:
			stats.General.Rating2++
		case 3:
			stats.General.Rating3++
		case 4:
			stats.General.Rating4++
		case 5:
			stats.General.Rating5++
		}
		counts[r.VisitType]++
	}
	if stats.General.Count > 0 {
		stats.General.Average = float64(sum) / float64(stats.General.Count)
	}
	for vt, n := range counts {
		stats.ByVisitType = append(stats.ByVisitType, VisitTypeCount{VisitType: vt, Count: n})
	}
	sort.Slice(stats.ByVisitType, func(i, j int) bool {
		return stats.ByVisitType[i].VisitType < stats.ByVisitType[j].VisitType
	})
	return stats, nil
}
