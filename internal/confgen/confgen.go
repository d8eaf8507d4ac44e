// Package confgen renders a profile into the configuration artifact the
// in-game add-on consumes. Output is deterministic: the same profile always
// produces byte-identical text, so the artifact can be diffed and copied
// reliably. External tooling depends on the section layout and field order.
package confgen

import (
	"fmt"
	"strings"

	"github.com/kiwimenu123/TACAC/internal/storage"
)

// Fixed gameplay-tuning values baked into every generated config. These are
// not profile-derived; the add-on ships with these defaults.
var (
	blacklistedWeapons = []string{
		"WEAPON_RAILGUN",
		"WEAPON_MINIGUN",
		"WEAPON_RPG",
		"WEAPON_GRENADELAUNCHER",
		"WEAPON_HOMINGLAUNCHER",
		"WEAPON_FIREWORK",
		"WEAPON_RAILGUNXM3",
	}
	blacklistedVehicles = []string{
		"cargoplane",
		"jet",
		"lazer",
		"hydra",
		"rhino",
		"khanjali",
		"akula",
		"hunter",
		"savage",
	}
)

const header = `--[[
    ████████╗ █████╗  ██████╗
    ╚══██╔══╝██╔══██╗██╔════╝
       ██║   ███████║██║     
       ██║   ██╔══██║██║     
       ██║   ██║  ██║╚██████╗
       ╚═╝   ╚═╝  ╚═╝ ╚═════╝
    Tactical Anti Cheat - Configuration
    Generated for: %s
]]--

Config = {}

-- ============================================
-- AUTHENTICATION (DO NOT SHARE)
-- ============================================
Config.WebsiteUsername = "%s"
Config.WebsitePassword = "%s"
Config.ServerName = "%s"
Config.LicenseKey = "%s"

-- ============================================
-- DETECTION MODULES
-- ============================================
Config.Detections = {
    GodMode = %t,
    SpeedHack = %t,
    NoClip = %t,
    WeaponBlacklist = %t,
    VehicleBlacklist = %t,
    ExplosionDetection = %t,
    ResourceInjection = %t,
    TeleportDetection = %t
}

-- ============================================
-- PUNISHMENT SETTINGS
-- ============================================
Config.Punishment = {
    DefaultAction = "%s", -- "kick", "ban", "warn"
    DefaultBanDuration = %d, -- Days (0 = permanent)
}

-- ============================================
-- DISCORD INTEGRATION
-- ============================================
Config.Discord = {
    Enabled = %t,
    WebhookURL = "%s",
    BotName = "TAC Anticheat",
    BotAvatar = "https://i.imgur.com/your-logo.png"
}

-- ============================================
-- SPEED HACK SETTINGS
-- ============================================
Config.SpeedLimits = {
    OnFoot = 15.0, -- Max speed on foot (m/s)
    InVehicle = 100.0, -- Max vehicle speed (m/s)
    Swimming = 8.0, -- Max swimming speed (m/s)
    Tolerance = 1.5 -- Multiplier tolerance
}

-- ============================================
-- TELEPORT SETTINGS
-- ============================================
Config.Teleport = {
    MaxDistance = 500.0, -- Max distance per tick
    CheckInterval = 1000 -- ms between checks
}
`

const footer = `-- ============================================
-- EXPLOSION SETTINGS
-- ============================================
Config.Explosions = {
    MaxPerMinute = 5, -- Max explosions per player per minute
    LogAll = true -- Log all explosions
}

-- ============================================
-- ADMIN IDENTIFIERS
-- ============================================
Config.Admins = {
%s
}

-- ============================================
-- WHITELIST (Bypass detections)
-- ============================================
Config.Whitelist = {
%s
}

-- ============================================
-- BAN MESSAGES
-- ============================================
Config.Messages = {
    BanMessage = "🛡️ TAC | You have been banned from this server.\nReason: %%s\nExpires: %%s",
    KickMessage = "🛡️ TAC | You have been kicked from this server.\nReason: %%s",
    DetectionMessage = "🛡️ TAC | Cheating detected: %%s"
}`

// Generate renders the configuration artifact for a profile. Pure and total:
// it never fails for a well-formed profile.
func Generate(p *storage.Profile) string {
	var sb strings.Builder

	st := p.Settings
	fmt.Fprintf(&sb, header,
		p.ServerName,
		p.Username, p.Password, p.ServerName, p.LicenseKey,
		st.Godmode, st.Speedhack, st.Noclip, st.Weapons,
		st.Vehicles, st.Explosions, st.Injection, st.Teleport,
		st.PunishmentAction, st.BanDuration,
		st.DiscordEnabled, st.DiscordWebhook)

	sb.WriteString("\n")
	writeHashList(&sb, "BLACKLISTED WEAPONS", "Config.BlacklistedWeapons", blacklistedWeapons)
	sb.WriteString("\n")
	writeHashList(&sb, "BLACKLISTED VEHICLES", "Config.BlacklistedVehicles", blacklistedVehicles)
	sb.WriteString("\n")

	fmt.Fprintf(&sb, footer, adminRows(p.Admins), whitelistRows(p.Whitelist))

	return sb.String()
}

// writeHashList renders a Lua table of compile-time hashed names. The add-on
// runtime expects backtick (joaat hash) syntax here.
func writeHashList(sb *strings.Builder, title, name string, entries []string) {
	sb.WriteString("-- ============================================\n")
	sb.WriteString("-- " + title + "\n")
	sb.WriteString("-- ============================================\n")
	sb.WriteString(name + " = {\n")
	for i, e := range entries {
		sb.WriteString("    `" + e + "`")
		if i < len(entries)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
}

// adminRows renders one identifier → role row per admin in insertion order,
// or the placeholder line when no admins are configured.
func adminRows(admins []*storage.Admin) string {
	if len(admins) == 0 {
		return "    -- No admins configured"
	}
	rows := make([]string, len(admins))
	for i, a := range admins {
		rows[i] = fmt.Sprintf("    [\"%s\"] = \"%s\",", a.Identifier, a.Role)
	}
	return strings.Join(rows, "\n")
}

// whitelistRows renders one identifier → bypass row per whitelist entry,
// or the placeholder line when the whitelist is empty.
func whitelistRows(entries []*storage.WhitelistEntry) string {
	if len(entries) == 0 {
		return "    -- No whitelist configured"
	}
	rows := make([]string, len(entries))
	for i, w := range entries {
		rows[i] = fmt.Sprintf("    [\"%s\"] = \"%s\",", w.Identifier, w.Bypass)
	}
	return strings.Join(rows, "\n")
}
