package redis

import "fmt"

// contestantsKey returns the Redis key for the roster LIST (JSON records, insertion order)
func (s *Storage) contestantsKey() string {
	return fmt.Sprintf("%s:roster:contestants", s.cfg.KeyPrefix)
}

// lastIDKey returns the Redis key holding the highest contestant id assigned so far
func (s *Storage) lastIDKey() string {
	return fmt.Sprintf("%s:roster:last_id", s.cfg.KeyPrefix)
}
