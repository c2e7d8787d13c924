package core

import "context"

type callerAppKey struct{}

// WithCallerApp binds the calling application id to ctx.
func WithCallerApp(ctx context.Context, appID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerAppKey{}, appID)
}

func CallerAppFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	appID, ok := ctx.Value(callerAppKey{}).(string)
	return appID, ok && appID != ""
}

type ContextCallerResolver struct{}

func (ContextCallerResolver) ResolveCaller(ctx context.Context) (string, error) {
	appID, ok := CallerAppFromContext(ctx)
	if !ok {
		return "", permissionDeniedError("core: calling application is not identified")
	}
	return appID, nil
}

var _ CallerResolver = ContextCallerResolver{}
