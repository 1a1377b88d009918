package auth

import (
	"context"
	"testing"
)

func TestWithAuthRoundTrip(t *testing.T) {
	ac := AuthContext{UserID: 7, Email: "ana@x.com", Role: "user", SessionID: 3}
	ctx := WithAuth(context.Background(), ac)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got != ac {
		t.Errorf("got %+v, want %+v", got, ac)
	}
}

func TestFromContextEmpty(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no AuthContext in empty context")
	}
}

func TestUserID(t *testing.T) {
	if got := UserID(context.Background()); got != 0 {
		t.Errorf("UserID on empty context = %d, want 0", got)
	}
	ctx := WithAuth(context.Background(), AuthContext{UserID: 42})
	if got := UserID(ctx); got != 42 {
		t.Errorf("UserID = %d, want 42", got)
	}
}

func TestIsAdmin(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("empty context should not be admin")
	}
	if IsAdmin(WithAuth(context.Background(), AuthContext{Role: "user"})) {
		t.Error("user role should not be admin")
	}
	if !IsAdmin(WithAuth(context.Background(), AuthContext{Role: "admin"})) {
		t.Error("admin role should be admin")
	}
}
