package confgen

import (
	"strings"
	"testing"
	"time"

	"github.com/kiwimenu123/TACAC/internal/storage"
)

func testProfile() *storage.Profile {
	return &storage.Profile{
		Username:   "alice",
		Password:   "secret123",
		ServerName: "Alice's Server",
		LicenseKey: "123",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Settings:   storage.DefaultSettings(),
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := testProfile()
	a := Generate(p)
	b := Generate(p)
	if a != b {
		t.Error("expected byte-identical output for the same profile")
	}
}

func TestGenerateBannerTrailingSpaces(t *testing.T) {
	out := Generate(testProfile())

	// The two middle rows of the banner art end in five spaces.
	for _, want := range []string{
		"███████║██║     \n",
		"██╔══██║██║     \n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing banner row %q", want)
		}
	}
}

func TestGenerateCredentials(t *testing.T) {
	out := Generate(testProfile())

	for _, want := range []string{
		`Config.WebsiteUsername = "alice"`,
		`Config.WebsitePassword = "secret123"`,
		`Config.ServerName = "Alice's Server"`,
		`Config.LicenseKey = "123"`,
		`Generated for: Alice's Server`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateDetectionToggles(t *testing.T) {
	p := testProfile()
	out := Generate(p)

	// All default toggles are on
	for _, want := range []string{
		"GodMode = true", "SpeedHack = true", "NoClip = true",
		"WeaponBlacklist = true", "VehicleBlacklist = true",
		"ExplosionDetection = true", "ResourceInjection = true",
		"TeleportDetection = true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	p.Settings.Godmode = false
	p.Settings.Teleport = false
	out = Generate(p)
	if !strings.Contains(out, "GodMode = false") {
		t.Error("disabled godmode not reflected")
	}
	if !strings.Contains(out, "TeleportDetection = false") {
		t.Error("disabled teleport not reflected")
	}
	if !strings.Contains(out, "SpeedHack = true") {
		t.Error("unrelated toggle must stay on")
	}
}

func TestGeneratePunishmentAndDiscord(t *testing.T) {
	p := testProfile()
	p.Settings.PunishmentAction = "ban"
	p.Settings.BanDuration = 30
	p.Settings.DiscordEnabled = true
	p.Settings.DiscordWebhook = "https://discord.com/api/webhooks/1/tok"

	out := Generate(p)
	for _, want := range []string{
		`DefaultAction = "ban"`,
		"DefaultBanDuration = 30",
		"Enabled = true",
		`WebhookURL = "https://discord.com/api/webhooks/1/tok"`,
		`BotName = "TAC Anticheat"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateEmptyAdminPlaceholders(t *testing.T) {
	out := Generate(testProfile())

	if !strings.Contains(out, "    -- No admins configured") {
		t.Error("output missing admin placeholder")
	}
	if !strings.Contains(out, "    -- No whitelist configured") {
		t.Error("output missing whitelist placeholder")
	}
}

func TestGenerateAdminAndWhitelistRows(t *testing.T) {
	p := testProfile()
	p.Admins = []*storage.Admin{
		{Name: "Mod", Identifier: "license:mod1", Role: "moderator"},
		{Name: "Super", Identifier: "steam:110000", Role: "superadmin"},
	}
	p.Whitelist = []*storage.WhitelistEntry{
		{Name: "Trusted", Identifier: "license:t1", Bypass: "speedhack"},
	}

	out := Generate(p)
	for _, want := range []string{
		`    ["license:mod1"] = "moderator",`,
		`    ["steam:110000"] = "superadmin",`,
		`    ["license:t1"] = "speedhack",`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing row %q", want)
		}
	}
	if strings.Contains(out, "No admins configured") {
		t.Error("placeholder must be absent once admins exist")
	}

	// Rows render in insertion order
	if strings.Index(out, "license:mod1") > strings.Index(out, "steam:110000") {
		t.Error("admin rows out of insertion order")
	}
}

func TestGenerateBlacklists(t *testing.T) {
	out := Generate(testProfile())

	// Backtick (joaat) syntax, comma-separated except the last entry
	if !strings.Contains(out, "    `WEAPON_RAILGUN`,\n") {
		t.Error("output missing weapon blacklist entry")
	}
	if !strings.Contains(out, "    `WEAPON_RAILGUNXM3`\n}") {
		t.Error("last weapon entry must have no trailing comma")
	}
	if !strings.Contains(out, "    `cargoplane`,\n") {
		t.Error("output missing vehicle blacklist entry")
	}
	if !strings.Contains(out, "    `savage`\n}") {
		t.Error("last vehicle entry must have no trailing comma")
	}
}

func TestGenerateMessagePlaceholders(t *testing.T) {
	out := Generate(testProfile())

	// The runtime fills these in; %s must survive generation literally
	if !strings.Contains(out, `Reason: %s\nExpires: %s`) {
		t.Error("ban message placeholders mangled")
	}
	if !strings.Contains(out, `Cheating detected: %s`) {
		t.Error("detection message placeholder mangled")
	}
}

func TestGenerateSectionOrder(t *testing.T) {
	out := Generate(testProfile())

	sections := []string{
		"AUTHENTICATION",
		"DETECTION MODULES",
		"PUNISHMENT SETTINGS",
		"DISCORD INTEGRATION",
		"SPEED HACK SETTINGS",
		"TELEPORT SETTINGS",
		"BLACKLISTED WEAPONS",
		"BLACKLISTED VEHICLES",
		"EXPLOSION SETTINGS",
		"ADMIN IDENTIFIERS",
		"WHITELIST",
		"BAN MESSAGES",
	}
	last := -1
	for _, sec := range sections {
		idx := strings.Index(out, sec)
		if idx == -1 {
			t.Fatalf("output missing section %q", sec)
		}
		if idx < last {
			t.Errorf("section %q out of order", sec)
		}
		last = idx
	}
}
