package redact

import (
	"strings"
	"testing"
)

func TestApply_Email(t *testing.T) {
	t.Parallel()

	got := Apply("escríbeme a carlos@ejemplo.com por favor")
	if strings.Contains(got, "carlos@ejemplo.com") {
		t.Errorf("address survived redaction: %q", got)
	}
	if !strings.Contains(got, TokenEmail) {
		t.Errorf("expected %s in %q", TokenEmail, got)
	}
}

func TestApply_EmailAndPhone(t *testing.T) {
	t.Parallel()

	in := "Soy Luis, luis@mail.com, llámenme al 5512345678"
	got := Apply(in)

	if strings.Contains(got, "luis@mail.com") {
		t.Errorf("address survived redaction: %q", got)
	}
	if strings.Contains(got, "5512345678") {
		t.Errorf("digits survived redaction: %q", got)
	}
	if !strings.Contains(got, TokenEmail) || !strings.Contains(got, TokenPhone) {
		t.Errorf("expected both sentinels in %q", got)
	}
}

func TestApply_CardBeforePhone(t *testing.T) {
	t.Parallel()

	got := Apply("mi tarjeta es 4111 1111 1111 1111")
	if !strings.Contains(got, TokenCard) {
		t.Errorf("expected %s in %q", TokenCard, got)
	}
	if strings.Contains(got, TokenPhone) {
		t.Errorf("card digits matched as phone: %q", got)
	}
	if strings.Contains(got, "4111") {
		t.Errorf("card digits survived redaction: %q", got)
	}
}

func TestApply_ShortNumber(t *testing.T) {
	t.Parallel()

	got := Apply("los últimos 4532 de mi cuenta")
	if !strings.Contains(got, TokenNumber) {
		t.Errorf("expected %s in %q", TokenNumber, got)
	}
}

func TestApply_Secret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		gone string
	}{
		{"english colon", "my password: hunter2 stopped working", "hunter2"},
		{"spanish es", "mi contraseña es S3creta y no entra", "S3creta"},
		{"pin", "el PIN 9921 no funciona", "9921"},
		{"api key", "api key sk-abc123 leaked", "sk-abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Apply(tt.in)
			if strings.Contains(got, tt.gone) {
				t.Errorf("secret %q survived redaction: %q", tt.gone, got)
			}
			if !strings.Contains(got, TokenSecret) {
				t.Errorf("expected %s in %q", TokenSecret, got)
			}
		})
	}
}

func TestApply_KeywordAloneUntouched(t *testing.T) {
	t.Parallel()

	in := "no recuerdo mi contraseña."
	if got := Apply(in); got != in {
		t.Errorf("Apply(%q) = %q, want unchanged", in, got)
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	samples := []string{
		"",
		"hola, todo bien",
		"Soy Carlos, mi correo es carlos@ejemplo.com",
		"tarjeta 4111 1111 1111 1111 y teléfono 5512345678",
		"password: hunter2 pin 4411",
		"ref 12345 cuenta 678901 contacto a.b-c@x.co",
		"mi número es 99887766 y el otro 1234",
	}
	for _, s := range samples {
		once := Apply(s)
		twice := Apply(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", s, once, twice)
		}
	}
}

func TestApply_PureNoMatch(t *testing.T) {
	t.Parallel()

	in := "el sistema va lento desde ayer"
	if got := Apply(in); got != in {
		t.Errorf("Apply(%q) = %q, want unchanged", in, got)
	}
}
