package validation

import (
	"sort"
	"sync"
)

// TrackStatus is the track-level projection shown in the main listing.
type TrackStatus struct {
	TrackTitle string   `json:"track_title"`
	Passed     bool     `json:"passed"`
	Platforms  []string `json:"platforms"`
}

// PlatformSection is one platform's rows for a track, with the derived
// all-rows-passed state.
type PlatformSection struct {
	Platform string          `json:"platform"`
	Passed   bool            `json:"passed"`
	Rows     []ReconciledRow `json:"rows"`
}

// TrackView is the full per-track detail: one section per platform that has
// rows for the track.
type TrackView struct {
	TrackTitle string            `json:"track_title"`
	Passed     bool              `json:"passed"`
	Platforms  []PlatformSection `json:"platforms"`
}

// CorrectionResult reports the state after a correction was applied.
type CorrectionResult struct {
	Platform       string        `json:"platform"`
	TrackTitle     string        `json:"track_title"`
	RowIndex       int           `json:"row_index"`
	Row            ReconciledRow `json:"row"`
	PlatformPassed bool          `json:"platform_passed"`
	TrackPassed    bool          `json:"track_passed"`
}

// Store is the process-wide grouping of reconciled rows, keyed by platform
// then track. It is rebuilt from empty at the start of each validation run
// and read by all result endpoints until the next run. Batch workers merge
// into it concurrently, so access is mutex-guarded. Pass state is always
// derived from row statuses on read, never cached.
type Store struct {
	mu            sync.RWMutex
	platformField string
	groups        map[string]map[string][]ReconciledRow
}

// NewStore creates an empty store grouping rows by the given platform field.
func NewStore(platformField string) *Store {
	return &Store{
		platformField: platformField,
		groups:        make(map[string]map[string][]ReconciledRow),
	}
}

// Merge partitions one track's reconciled rows by their platform field and
// appends each partition to the matching (platform, track) sequence. Rows
// lacking a platform value are dropped; they cannot be attributed. Merging is
// append-only and commutative across distinct tracks, so batch completion
// order never changes the final grouping.
func (s *Store) Merge(track string, rows []ReconciledRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		platform := row.Fields.Text(s.platformField)
		if platform == "" {
			continue
		}

		tracks, ok := s.groups[platform]
		if !ok {
			tracks = make(map[string][]ReconciledRow)
			s.groups[platform] = tracks
		}

		tracks[track] = append(tracks[track], row)
	}
}

// Tracks returns the track-level status list, sorted by track title.
func (s *Store) Tracks() []TrackStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTrack := make(map[string]*TrackStatus)
	for platform, tracks := range s.groups {
		for track, rows := range tracks {
			status, ok := byTrack[track]
			if !ok {
				status = &TrackStatus{TrackTitle: track, Passed: true}
				byTrack[track] = status
			}

			status.Platforms = append(status.Platforms, platform)
			if !allPassed(rows) {
				status.Passed = false
			}
		}
	}

	statuses := make([]TrackStatus, 0, len(byTrack))
	for _, status := range byTrack {
		sort.Strings(status.Platforms)
		statuses = append(statuses, *status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].TrackTitle < statuses[j].TrackTitle
	})

	return statuses
}

// Track returns the per-platform detail for one track, sections sorted by
// platform name.
func (s *Store) Track(title string) (*TrackView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := &TrackView{TrackTitle: title, Passed: true}

	for platform, tracks := range s.groups {
		rows, ok := tracks[title]
		if !ok {
			continue
		}

		section := PlatformSection{
			Platform: platform,
			Passed:   allPassed(rows),
			Rows:     append([]ReconciledRow(nil), rows...),
		}

		if !section.Passed {
			view.Passed = false
		}

		view.Platforms = append(view.Platforms, section)
	}

	if len(view.Platforms) == 0 {
		return nil, ErrTrackNotFound
	}

	sort.Slice(view.Platforms, func(i, j int) bool {
		return view.Platforms[i].Platform < view.Platforms[j].Platform
	})

	return view, nil
}

// ApplyCorrection marks the row at (platform, track, rowIndex) as Passed,
// optionally replacing its corrected value, and returns the recomputed
// platform-level and track-level pass state. Applying the same correction
// twice yields the same state.
func (s *Store) ApplyCorrection(platform, track string, rowIndex int, newValue *string) (*CorrectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, ok := s.groups[platform]
	if !ok {
		return nil, ErrPlatformNotFound
	}

	rows, ok := tracks[track]
	if !ok {
		return nil, ErrTrackNotFound
	}

	if rowIndex < 0 || rowIndex >= len(rows) {
		return nil, ErrRowNotFound
	}

	rows[rowIndex].Status = StatusPassed
	if newValue != nil {
		rows[rowIndex].NewValue = *newValue
	}

	return &CorrectionResult{
		Platform:       platform,
		TrackTitle:     track,
		RowIndex:       rowIndex,
		Row:            rows[rowIndex],
		PlatformPassed: allPassed(rows),
		TrackPassed:    s.trackPassedLocked(track),
	}, nil
}

// Reset empties the store for a new validation run.
func (s *Store) Reset() {
	s.mu.Lock()
	s.groups = make(map[string]map[string][]ReconciledRow)
	s.mu.Unlock()
}

// Empty reports whether the store holds no grouped rows.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups) == 0
}

// PlatformPassed reports the derived pass state for one (platform, track) pair.
func (s *Store) PlatformPassed(platform, track string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks, ok := s.groups[platform]
	if !ok {
		return false
	}

	rows, ok := tracks[track]
	if !ok {
		return false
	}

	return allPassed(rows)
}

// TrackPassed reports the derived overall pass state for a track across all
// platforms containing it.
func (s *Store) TrackPassed(track string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trackPassedLocked(track)
}

func (s *Store) trackPassedLocked(track string) bool {
	found := false
	for _, tracks := range s.groups {
		rows, ok := tracks[track]
		if !ok {
			continue
		}

		found = true
		if !allPassed(rows) {
			return false
		}
	}
	return found
}

func allPassed(rows []ReconciledRow) bool {
	for _, row := range rows {
		if !row.Passed() {
			return false
		}
	}
	return true
}
