package analysis

import (
	"strings"
	"testing"

	"github.com/sasangkyoo/slap/models"
)

func labelsWith(primary string, modifiers []string, loading string, ap ...string) models.SlapLabels {
	if len(ap) == 0 {
		ap = []string{models.APOpen}
	}
	return models.SlapLabels{
		Structure:        models.StructureLabels{Primary: primary, Modifiers: modifiers},
		Loading:          loading,
		AccessProtection: ap,
	}
}

func TestAdvise_OpenStaticPage(t *testing.T) {
	s := Advise(labelsWith(models.SStatic, nil, models.LStatic), nil)

	if s.Level != models.StrategySuccess {
		t.Errorf("Level = %s, want success", s.Level)
	}
	if s.Message != "SUCCESS: Standard HTTP requests with HTML parsing should work. No major obstacles detected." {
		t.Errorf("Message = %q", s.Message)
	}
}

func TestAdvise_CaptchaAborts(t *testing.T) {
	s := Advise(labelsWith(models.SStatic, nil, models.LStatic, models.APCaptcha), nil)

	if s.Level != models.StrategyAbort {
		t.Errorf("Level = %s, want abort", s.Level)
	}
	if !strings.Contains(s.Message, "CAPTCHA Solver") {
		t.Errorf("Message = %q, want CAPTCHA Solver", s.Message)
	}
}

func TestAdvise_AuthAborts(t *testing.T) {
	s := Advise(labelsWith(models.SStatic, nil, models.LStatic, models.APAuth), nil)

	if s.Level != models.StrategyAbort {
		t.Errorf("Level = %s, want abort", s.Level)
	}
	if !strings.Contains(s.Message, "valid Credentials") {
		t.Errorf("Message = %q, want valid Credentials", s.Message)
	}
}

func TestAdvise_CaptchaNamedWhenBothBlockersPresent(t *testing.T) {
	s := Advise(labelsWith(models.SStatic, nil, models.LStatic, models.APAuth, models.APCaptcha), nil)

	if s.Level != models.StrategyAbort {
		t.Errorf("Level = %s, want abort", s.Level)
	}
	if !strings.Contains(s.Message, "CAPTCHA Solver") {
		t.Errorf("Message = %q, want CAPTCHA Solver named over credentials", s.Message)
	}
}

func TestAdvise_AbortBeatsVirtualizedWarning(t *testing.T) {
	labels := labelsWith(models.SCSR, []string{models.SVirtualized}, models.LInteractive, models.APCaptcha)
	s := Advise(labels, nil)

	if s.Level != models.StrategyAbort {
		t.Errorf("Level = %s, want abort to win over warn", s.Level)
	}
}

func TestAdvise_VirtualizedWarns(t *testing.T) {
	labels := labelsWith(models.SCSR, []string{models.SVirtualized}, models.LInteractive)
	s := Advise(labels, nil)

	if s.Level != models.StrategyWarn {
		t.Errorf("Level = %s, want warn", s.Level)
	}
	if !strings.Contains(s.Message, "reverse-engineer the internal JSON API") {
		t.Errorf("Message = %q", s.Message)
	}
}

func TestAdvise_RateLimitCautions(t *testing.T) {
	s := Advise(labelsWith(models.SStatic, nil, models.LStatic, models.APRate), nil)

	if s.Level != models.StrategyCaution {
		t.Errorf("Level = %s, want caution", s.Level)
	}
	if !strings.Contains(s.Message, "Throttling (429)") {
		t.Errorf("Message = %q, want Throttling (429)", s.Message)
	}
}

func TestAdvise_BotScoreCautions(t *testing.T) {
	s := Advise(labelsWith(models.SStatic, nil, models.LStatic, models.APBotScore), nil)

	if s.Level != models.StrategyCaution {
		t.Errorf("Level = %s, want caution", s.Level)
	}
	if !strings.Contains(s.Message, "Soft-blocking") {
		t.Errorf("Message = %q, want Soft-blocking", s.Message)
	}
}

func TestAdvise_CSRInforms(t *testing.T) {
	s := Advise(labelsWith(models.SCSR, nil, models.LAPI), nil)

	if s.Level != models.StrategyInfo {
		t.Errorf("Level = %s, want info", s.Level)
	}
	if !strings.Contains(s.Message, "Wait for hydration") {
		t.Errorf("Message = %q, want hydration advice", s.Message)
	}
}

func TestAdvise_LoginGateInforms(t *testing.T) {
	s := Advise(labelsWith(models.SSSR, nil, models.LStatic, models.APLogin), nil)

	if s.Level != models.StrategyInfo {
		t.Errorf("Level = %s, want info", s.Level)
	}
	if !strings.Contains(s.Message, "POST credentials") {
		t.Errorf("Message = %q, want login advice", s.Message)
	}
}

func TestAdvise_CautionBeatsCSRInfo(t *testing.T) {
	s := Advise(labelsWith(models.SCSR, nil, models.LAPI, models.APRate), nil)

	if s.Level != models.StrategyCaution {
		t.Errorf("Level = %s, want caution to win over CSR info", s.Level)
	}
}

func TestAdvise_CSRInfoBeatsLoginInfo(t *testing.T) {
	s := Advise(labelsWith(models.SCSR, nil, models.LStatic, models.APLogin), nil)

	if !strings.Contains(s.Message, "Client-Side Rendering") {
		t.Errorf("Message = %q, want CSR rule to fire before login rule", s.Message)
	}
}
