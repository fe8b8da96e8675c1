package cache

import "strconv"

// keyPrefix namespaces approach records in shared stores such as Redis.
const keyPrefix = "neo:asteroid:"

// Key identifies a cached ApproachRecord. Records are keyed by asteroid id
// alone; the date window never takes part in the key.
type Key int

// String returns the store key, e.g. "neo:asteroid:3542519".
func (k Key) String() string {
	return keyPrefix + strconv.Itoa(int(k))
}

// AsteroidID returns the id the key was built from.
func (k Key) AsteroidID() int {
	return int(k)
}
