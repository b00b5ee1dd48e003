package detectors

import (
	"strings"
	"testing"
)

type fakePhone struct {
	valid bool
}

func (f *fakePhone) IsValidNumber(digits string) bool {
	return f.valid
}

func TestPhoneNumber(t *testing.T) {
	accept := PhoneNumber(&fakePhone{valid: true})

	hit, why := accept("Call our helpline 1 800 555 0199 today", "example.com", "user")
	if !hit {
		t.Fatal("expected hit for a valid helpline number")
	}
	if !strings.HasPrefix(why, "Phone number:") {
		t.Errorf("why = %q", why)
	}

	tests := []struct {
		name string
		text string
	}{
		{"technical vocabulary", "the error code is 18005550199"},
		{"int32 limit", "you can call 2147483647 anytime"},
		{"private network address", "connect to 1921681100 please"},
		{"long digit run", "the id is 1234567890123456789012345"},
		{"no digits", "call me sometime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit, _ := accept(tt.text, "example.com", "user"); hit {
				t.Errorf("false positive on %q", tt.text)
			}
		})
	}

	// An invalid number never fires no matter how phone-shaped it looks.
	reject := PhoneNumber(&fakePhone{valid: false})
	if hit, _ := reject("Call our helpline 1 800 555 0199 today", "example.com", "user"); hit {
		t.Error("checker verdict ignored")
	}
}

func TestPhoneNumber_Deobfuscation(t *testing.T) {
	// Letters standing in for digits still form a candidate.
	check := PhoneNumber(&fakePhone{valid: true})
	if hit, _ := check("call now at 1 8OO 555 O199", "example.com", "user"); !hit {
		t.Error("letter-for-digit obfuscation not undone")
	}
}

func TestCustomerService(t *testing.T) {
	title := "Apple tech support phone number 1-800-123-4567"

	hit, why := CustomerService(title, "askubuntu.com", "user")
	if !hit {
		t.Fatal("expected hit on carve-out site")
	}
	if !strings.Contains(why, "Key phrase") {
		t.Errorf("why = %q", why)
	}

	hit, why = CustomerService(title, "stackoverflow.com", "user")
	if !hit {
		t.Fatal("expected scored hit elsewhere")
	}
	if !strings.Contains(why, "Scam aimed at *apple* customers") {
		t.Errorf("why = %q", why)
	}

	if hit, _ := CustomerService("How do I install Ubuntu packages", "askubuntu.com", "user"); hit {
		t.Error("false positive on ordinary question")
	}
	if hit, _ := CustomerService("microsoft windows is great", "stackoverflow.com", "user"); hit {
		t.Error("business name without digits and keywords must not fire")
	}
}

func TestKeywordEmail(t *testing.T) {
	hit, why := KeywordEmail("Contact me for a loan at quickcash@gmail.com", "example.com", "user")
	if !hit {
		t.Fatal("expected hit for keyword plus email")
	}
	if !strings.Contains(why, "loan") || !strings.Contains(why, "quickcash@gmail.com") {
		t.Errorf("why = %q", why)
	}

	if hit, _ := KeywordEmail("send money to user@example.com", "example.com", "user"); hit {
		t.Error("placeholder domains are exempt")
	}

	hit, why = KeywordEmail("reach me at smith @ g mail . com", "example.com", "user")
	if !hit {
		t.Fatal("expected hit for obfuscated email")
	}
	if !strings.HasPrefix(why, "Obfuscated email") {
		t.Errorf("why = %q", why)
	}

	code := "my code fails <code>x = 1</code> contact loan@qmail.com"
	if hit, _ := KeywordEmail(code, "stackoverflow.com", "user"); hit {
		t.Error("posts with code on stackoverflow.com are exempt")
	}

	if hit, _ := KeywordEmail("ordinary question about compilers", "example.com", "user"); hit {
		t.Error("false positive")
	}
}

func TestPatternEmail(t *testing.T) {
	hit, why := PatternEmail("write to drjohnhealingtemple@yahoo.com today", "example.com", "user")
	if !hit {
		t.Fatal("expected hit for scam-shaped address")
	}
	if !strings.Contains(why, "drjohnhealingtemple@yahoo.com") {
		t.Errorf("why = %q", why)
	}

	if hit, _ := PatternEmail("mail regular.person@company.org about it", "example.com", "user"); hit {
		t.Error("false positive on ordinary address")
	}
}
