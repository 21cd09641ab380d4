package bot

import (
	"strconv"
	"strings"

	"github.com/vincent-heng/viking-warband/bot/util"
	"github.com/vincent-heng/viking-warband/game"
	"github.com/vincent-heng/viking-warband/game/db"
)

const watchedLines = 4

// mention names the player, pinging the discord user behind it if any
func mention(p db.Player) string {
	raw, found := strings.CutPrefix(p.WalletAddress, "discord:")
	if !found {
		return "**" + p.Username + "**"
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return "**" + p.Username + "**"
	}
	return util.DiscordIDToText(uint(id))
}

// raidReport sums a resolved raid up: rewards and level ups on a victory,
// the toll taken on the warband otherwise.
func raidReport(st game.BattleState) string {
	out := st.Outcome
	switch {
	case out == nil && st.Aborted:
		return "Le raid **" + st.Raid.Title + "** s'est achevé mais son issue n'a pas pu être enregistrée."
	case out == nil:
		return "Le raid **" + st.Raid.Title + "** est terminé, résolution en cours..."
	}

	if !out.Victory {
		report := mention(out.Player) + " a été repoussé lors du raid **" + st.Raid.Title + "**. " +
			"La bande rentre blessée et abattue :\n"
		for _, m := range out.Roster {
			report += "- " + m.Name + " : " + strconv.Itoa(m.CurrentHealth) + " PV, moral " +
				strconv.Itoa(m.Morale) + "\n"
		}
		return report
	}

	report := mention(out.Player) + " a remporté le raid **" + st.Raid.Title + "** ! Butin : " +
		strconv.Itoa(out.Record.GoldEarned) + " or, " +
		strconv.Itoa(out.Record.ReputationEarned) + " réputation"
	if out.Record.TonEarned.IsPositive() {
		report += ", " + out.Record.TonEarned.String() + " TON"
	}
	report += ". Chaque mercenaire gagne " + strconv.Itoa(out.Record.ExperienceEarned) +
		" points d'expérience :\n"

	for _, m := range out.Roster {
		report += "- " + m.Name
		oldLevel, newLevel := game.Level(m.Experience-out.Record.ExperienceEarned), game.Level(m.Experience)
		if oldLevel < newLevel {
			report += ": Gain de niveau !"
			if nbLevelUps := newLevel - oldLevel; nbLevelUps > 1 {
				report += " x" + strconv.Itoa(nbLevelUps)
			}
		}
		report += "\n"
	}
	return report
}

// battleStatus shows the health pools and the last lines of the combat log
func battleStatus(st game.BattleState) string {
	status := "**" + st.Raid.Title + "** - tour " + strconv.Itoa(st.Turn+1) +
		" - bande " + strconv.Itoa(st.PlayerHealth) + " PV, ennemis " +
		strconv.Itoa(st.EnemyHealth) + " PV\n"

	from := max(0, len(st.Log)-watchedLines)
	for _, line := range st.Log[from:] {
		status += "> " + line + "\n"
	}

	switch {
	case st.AwaitingEnemy:
		status += "L'ennemi prépare sa riposte..."
	case !st.Over():
		status += "À vous : `!attack`, `!defend` ou `!special`"
	}
	return status
}
