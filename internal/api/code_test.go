package api

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

func TestGenerateUniqueCode_Format(t *testing.T) {
	code, err := generateUniqueCode(context.Background(), classroomCodePrefix,
		func(context.Context, string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := regexp.MatchString(`^CLS-[A-HJ-NP-Z2-9]{5}$`, code); !ok {
		t.Errorf("code %q does not match the expected shape", code)
	}
}

func TestGenerateUniqueCode_Exhausted(t *testing.T) {
	attempts := 0
	_, err := generateUniqueCode(context.Background(), schoolCodePrefix,
		func(context.Context, string) (bool, error) {
			attempts++
			return true, nil
		})
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Code != CodeInternal {
		t.Fatalf("err = %v, want internal OpError", err)
	}
	if attempts != codeAttempts {
		t.Errorf("attempts = %d, want %d", attempts, codeAttempts)
	}
}

func TestGenerateUniqueCode_ExistsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := generateUniqueCode(context.Background(), schoolCodePrefix,
		func(context.Context, string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the exists error passed through", err)
	}
}
