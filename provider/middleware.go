package provider

// Middleware wraps a Provider with cross-cutting behavior.
type Middleware func(Provider) Provider

// Chain composes middlewares. The first is outermost:
// Chain(a, b, c)(p) is a(b(c(p))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Provider) Provider {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}
