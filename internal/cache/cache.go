package cache

import "github.com/jmcampanini/git-pulls/internal/github"

// Cache is a snapshot of upstream pull request state split by status.
type Cache struct {
	Open   []github.PullRecord
	Closed []github.PullRecord
}

// New builds a cache from the two listings.
func New(open, closed []github.PullRecord) *Cache {
	return &Cache{Open: open, Closed: closed}
}

// All returns open records followed by closed ones.
func (c *Cache) All() []github.PullRecord {
	all := make([]github.PullRecord, 0, len(c.Open)+len(c.Closed))
	all = append(all, c.Open...)
	return append(all, c.Closed...)
}

// Partition returns the records for state. Unknown states yield nil.
func (c *Cache) Partition(state github.PRState) []github.PullRecord {
	switch state {
	case github.PRStateOpen:
		return c.Open
	case github.PRStateClosed:
		return c.Closed
	}
	return nil
}

// Find looks a pull request up by number, open partition first.
func (c *Cache) Find(number int) (github.PullRecord, bool) {
	for _, p := range c.All() {
		if p.Number == number {
			return p, true
		}
	}
	return github.PullRecord{}, false
}
