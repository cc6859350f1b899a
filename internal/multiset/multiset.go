// Package multiset implements the order-insensitive comparison and removal
// routines the verification pipeline uses to check ciphertext/plaintext sets
// without caring about shuffle order.
package multiset

// Equal reports whether a and b contain exactly the same elements with the
// same multiplicities. Order is irrelevant.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	remaining := toCounts(b)
	for _, v := range a {
		if remaining[v] == 0 {
			return false
		}
		remaining[v]--
	}
	for _, n := range remaining {
		if n != 0 {
			return false
		}
	}
	return true
}

// Remove deletes each element of a from d exactly once and returns the
// resulting slice along with the number of elements actually removed.
// Duplicate handling is conservative: every match present in a is consumed,
// so resubmitting a value that was already removed will not be found twice.
func Remove(d []string, a []string) (remaining []string, removed int) {
	pool := make([]string, len(d))
	copy(pool, d)

	for _, v := range a {
		idx := -1
		for i, x := range pool {
			if x == v {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		pool = append(pool[:idx], pool[idx+1:]...)
		removed++
	}
	return pool, removed
}

func toCounts(vs []string) map[string]int {
	m := make(map[string]int, len(vs))
	for _, v := range vs {
		m[v]++
	}
	return m
}
