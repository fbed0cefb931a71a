package phone

import "sync"

// Profile tracks spam/ham observations for a single normalized number
type Profile struct {
	Number    string `json:"number"`
	SpamCount int    `json:"spam_count"`
	HamCount  int    `json:"ham_count"`
}

// Total returns the number of observations for this profile
func (p *Profile) Total() int {
	return p.SpamCount + p.HamCount
}

// SpamRatio returns the fraction of observations labeled spam
func (p *Profile) SpamRatio() float64 {
	total := p.Total()
	if total == 0 {
		return 0
	}
	return float64(p.SpamCount) / float64(total)
}

// ProfileStore tracks per-number spam history and the spam blacklist.
// Profiles are built during training and read-only afterward. A number that
// was ever observed with the spam label is blacklisted for the lifetime of
// the store.
type ProfileStore struct {
	mu        sync.RWMutex
	profiles  map[string]*Profile
	blacklist map[string]struct{}
}

// NewProfileStore creates an empty profile store
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles:  make(map[string]*Profile),
		blacklist: make(map[string]struct{}),
	}
}

// Record registers one labeled observation of a normalized number
func (ps *ProfileStore) Record(number string, spam bool) {
	if number == "" {
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	profile, exists := ps.profiles[number]
	if !exists {
		profile = &Profile{Number: number}
		ps.profiles[number] = profile
	}

	if spam {
		profile.SpamCount++
		ps.blacklist[number] = struct{}{}
	} else {
		profile.HamCount++
	}
}

// Lookup returns a copy of the profile for a normalized number, or nil if
// the number was never observed
func (ps *ProfileStore) Lookup(number string) *Profile {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if profile, exists := ps.profiles[number]; exists {
		profileCopy := *profile
		return &profileCopy
	}

	return nil
}

// IsBlacklisted reports whether a normalized number ever appeared with the
// spam label
func (ps *ProfileStore) IsBlacklisted(number string) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	_, blacklisted := ps.blacklist[number]
	return blacklisted
}

// Len returns the number of distinct profiled numbers
func (ps *ProfileStore) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.profiles)
}

// BlacklistLen returns the number of blacklisted numbers
func (ps *ProfileStore) BlacklistLen() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.blacklist)
}

// Snapshot returns all profiles for model persistence
func (ps *ProfileStore) Snapshot() []Profile {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	profiles := make([]Profile, 0, len(ps.profiles))
	for _, profile := range ps.profiles {
		profiles = append(profiles, *profile)
	}

	return profiles
}

// Restore replaces the store contents from a snapshot. The blacklist is
// rebuilt from the profiles' spam counts.
func (ps *ProfileStore) Restore(profiles []Profile) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.profiles = make(map[string]*Profile, len(profiles))
	ps.blacklist = make(map[string]struct{})

	for i := range profiles {
		profile := profiles[i]
		ps.profiles[profile.Number] = &profile
		if profile.SpamCount > 0 {
			ps.blacklist[profile.Number] = struct{}{}
		}
	}
}
