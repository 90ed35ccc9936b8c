package ratelimit

type multi []Limiter

// Multi combines limiters so a request must pass all of them. The reported
// Info comes from the limiter that denied the request, or otherwise from the
// one with the fewest requests remaining.
func Multi(limiters ...Limiter) Limiter {
	return multi(limiters)
}

func (m multi) Allow(key string) (bool, Info) {
	var (
		allowed = true
		chosen  Info
		picked  bool
	)

	for _, l := range m {
		ok, info := l.Allow(key)

		switch {
		case !ok && (allowed || info.RetryAfter > chosen.RetryAfter):
			allowed = false
			chosen = info
			picked = true
		case ok && allowed && (!picked || info.Remaining < chosen.Remaining):
			chosen = info
			picked = true
		}
	}

	return allowed, chosen
}

func (m multi) Close() {
	for _, l := range m {
		l.Close()
	}
}
