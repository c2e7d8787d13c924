package query

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-appaccount/core"
	goerrors "github.com/goliatone/go-errors"
)

func TestGetOAuthTokenMessage_ValidateReturnsRichError(t *testing.T) {
	err := (GetOAuthTokenMessage{}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != core.AppAccountErrorInvalidArgument {
		t.Fatalf("expected %q text code, got %q", core.AppAccountErrorInvalidArgument, rich.TextCode)
	}
}

func TestAccountMessage_OversizedNameCarriesInvalidArgument(t *testing.T) {
	msg := GetAccountExtraInfoMessage{Account: core.AccountRef{
		Owner: "com.example.owner",
		Name:  strings.Repeat("n", core.MaxAccountNameLength+1),
	}}
	var rich *goerrors.Error
	if !goerrors.As(msg.Validate(), &rich) {
		t.Fatalf("expected go-errors envelope")
	}
	if rich.TextCode != core.AppAccountErrorInvalidArgument {
		t.Fatalf("expected invalid argument text code, got %q", rich.TextCode)
	}
}

func TestGetAllAccountsQuery_NilReaderReturnsRichError(t *testing.T) {
	var q *GetAllAccountsQuery
	_, err := q.Query(context.Background(), GetAllAccountsMessage{})
	if err == nil {
		t.Fatalf("expected query dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.AppAccountErrorInternal {
		t.Fatalf("expected internal text code, got %q", rich.TextCode)
	}
}
