package auth

import "context"

type subjectKey struct{}

// WithSubject stamps the authenticated learner's id onto the context.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the learner id set by JWTMiddleware, or ""
// when the request carried no valid token.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
