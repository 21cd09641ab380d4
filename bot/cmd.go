package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/vincent-heng/viking-warband/bot/util"
	"github.com/vincent-heng/viking-warband/game"
	"github.com/vincent-heng/viking-warband/game/db"
)

// errText is what the players read when the game refuses a command
func errText(err error) string {
	switch {
	case errors.Is(err, game.ErrNotEnoughGold):
		return "Pas assez d'or :coin:"
	case errors.Is(err, game.ErrNotFound):
		return "Introuvable."
	case errors.Is(err, game.ErrUnknownMercenaryType):
		return "Type inconnu. Essayez `!recruit " + mercenaryTypeIDs() + "`"
	case errors.Is(err, game.ErrInsufficientPower):
		return "Votre bande n'est pas assez puissante pour ce raid."
	case errors.Is(err, game.ErrNoFighters):
		return "Aucun mercenaire n'est en état de combattre. Soignez-les avec `!heal` et `!rest`."
	case errors.Is(err, game.ErrRaidInactive):
		return "Ce contrat n'est plus proposé."
	case errors.Is(err, game.ErrBattleInProgress):
		return "Un raid est déjà en cours ! `!watch` pour le suivre."
	case errors.Is(err, game.ErrBattleOver):
		return "Ce raid est terminé."
	case errors.Is(err, game.ErrTurnInFlight):
		return "Patience, l'ennemi n'a pas encore riposté."
	default:
		return "Erreur inattendue :cry:"
	}
}

func mercenaryTypeIDs() string {
	ids := make([]string, 0, len(game.MercenaryTypes))
	for _, t := range game.MercenaryTypes {
		ids = append(ids, t.ID)
	}
	return strings.Join(ids, "|")
}

// args returns the words following the command
func args(m *discordgo.MessageCreate) []string {
	fields := strings.Fields(m.Content)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func (b *Bot) player(ctx context.Context, authorID uint) (db.Player, error) {
	return b.game.Player(ctx, util.WalletOf(authorID))
}

func (b *Bot) joinCmd(ctx context.Context, _ *discordgo.MessageCreate, authorID uint) _Response {
	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot create player: %w", err),
			"Impossible de rejoindre la bande...")
	}

	return simpleResponse(util.DiscordIDToText(authorID) + " lève sa bande de mercenaires !\n" + p.String())
}

func (b *Bot) warbandCmd(ctx context.Context, _ *discordgo.MessageCreate, authorID uint) _Response {
	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch player: %w", err), errText(err))
	}

	roster, err := b.game.Roster(ctx, p.ID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch warband: %w", err), errText(err))
	}

	msg := p.String()
	if len(roster) == 0 {
		return simpleResponse(msg + "Aucun mercenaire. Recrutez avec `!recruit " + mercenaryTypeIDs() + "`")
	}
	for i := range roster {
		msg += roster[i].String()
	}
	msg += "Puissance de la bande : " + strconv.FormatFloat(game.WarbandPower(roster), 'f', 1, 64)
	return simpleResponse(msg)
}

func (b *Bot) recruitCmd(ctx context.Context, m *discordgo.MessageCreate, authorID uint) _Response {
	params := args(m)
	if len(params) < 1 {
		return simpleErr(fmt.Errorf("no mercenary type: %w", errIllegalArgument),
			"Mauvaise syntaxe, essayez `!recruit "+mercenaryTypeIDs()+" [nom]`")
	}

	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch player: %w", err), errText(err))
	}

	p, merc, err := b.game.Recruit(ctx, p.ID, strings.ToLower(params[0]), strings.Join(params[1:], " "))
	if err != nil {
		return simpleErr(fmt.Errorf("cannot recruit: %w", err), errText(err))
	}

	return simpleResponse(merc.Icon + " **" + merc.Name + "** rejoint la bande ! Il vous reste " +
		strconv.Itoa(p.Gold) + " or.")
}

func (b *Bot) healCmd(ctx context.Context, m *discordgo.MessageCreate, authorID uint) _Response {
	return b.handleCare(ctx, m, authorID, "heal", b.game.Heal)
}

func (b *Bot) restCmd(ctx context.Context, m *discordgo.MessageCreate, authorID uint) _Response {
	return b.handleCare(ctx, m, authorID, "rest", b.game.Rest)
}

func (b *Bot) handleCare(ctx context.Context, m *discordgo.MessageCreate, authorID uint, cmd string,
	care func(context.Context, uint, uint) (db.Player, db.Mercenary, error)) _Response {
	params := args(m)
	var mercenaryID uint64
	var err error
	if len(params) == 1 {
		mercenaryID, err = strconv.ParseUint(strings.TrimPrefix(params[0], "#"), 10, 64)
	}
	if len(params) != 1 || err != nil || mercenaryID == 0 {
		return simpleErr(fmt.Errorf("cannot %s: %w", cmd, errIllegalArgument),
			"Mauvaise syntaxe, essayez `!"+cmd+" 1`")
	}

	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch player: %w", err), errText(err))
	}

	p, merc, err := care(ctx, p.ID, uint(mercenaryID))
	if err != nil {
		return simpleErr(fmt.Errorf("cannot %s: %w", cmd, err), errText(err))
	}

	return simpleResponse(merc.String() + "Il vous reste " + strconv.Itoa(p.Gold) + " or.")
}

func (b *Bot) raidsCmd(ctx context.Context, _ *discordgo.MessageCreate, _ uint) _Response {
	raids, err := b.game.Raids(ctx)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch raids: %w", err), "Impossible de récupérer les contrats.")
	}

	if len(raids) == 0 {
		return simpleResponse("Aucun contrat pour l'instant !")
	}

	msg := ""
	for i := range raids {
		msg += raids[i].String()
	}
	return simpleResponse(msg + "Lancez un raid avec `!raid <numéro>`")
}

func (b *Bot) raidCmd(ctx context.Context, m *discordgo.MessageCreate, authorID uint) _Response {
	params := args(m)
	var raidID uint64
	var err error
	if len(params) == 1 {
		raidID, err = strconv.ParseUint(strings.TrimPrefix(params[0], "#"), 10, 64)
	}
	if len(params) != 1 || err != nil || raidID == 0 {
		return simpleErr(fmt.Errorf("cannot start raid: %w", errIllegalArgument),
			"Mauvaise syntaxe, essayez `!raid 1`")
	}

	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch player: %w", err), errText(err))
	}

	st, err := b.game.StartRaid(ctx, p.ID, uint(raidID))
	if err != nil {
		return simpleErr(fmt.Errorf("cannot start raid: %w", err), errText(err))
	}

	names := make([]string, 0, len(st.Fighters))
	for _, f := range st.Fighters {
		names = append(names, f.Icon+" "+f.Name)
	}
	return simpleResponse("En route : " + strings.Join(names, ", ") + "\n" + battleStatus(st))
}

func (b *Bot) watchCmd(ctx context.Context, _ *discordgo.MessageCreate, authorID uint) _Response {
	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch player: %w", err), errText(err))
	}

	st, err := b.game.ActiveBattle(ctx, p.ID)
	if errors.Is(err, game.ErrNotFound) {
		return simpleResponse("Aucun raid en cours... pour l'instant ! `!raids`")
	}
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch battle: %w", err), errText(err))
	}

	if st.Over() {
		return simpleResponse(battleStatus(st) + raidReport(st))
	}
	return simpleResponse(battleStatus(st))
}

func (b *Bot) handleAction(ctx context.Context, authorID uint, action game.Action) _Response {
	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch player: %w", err), errText(err))
	}

	current, err := b.game.ActiveBattle(ctx, p.ID)
	if errors.Is(err, game.ErrNotFound) {
		return simpleErr(fmt.Errorf("no battle for %d: %w", p.ID, err),
			"Aucun raid en cours. Choisissez un contrat avec `!raids`")
	}
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch battle: %w", err), errText(err))
	}

	st, err := b.game.Act(ctx, current.ID, action)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot %s: %w", action, err), errText(err))
	}

	msg := ""
	for _, line := range st.Log[min(len(current.Log), len(st.Log)):] {
		msg += "> " + line + "\n"
	}

	switch {
	case st.AwaitingEnemy:
		msg += "L'ennemi prépare sa riposte... `!watch`"
	case st.Over():
		msg += raidReport(st)
	default:
		msg += battleStatus(st)
	}
	return simpleResponse(msg)
}

func (b *Bot) historyCmd(ctx context.Context, _ *discordgo.MessageCreate, authorID uint) _Response {
	p, err := b.player(ctx, authorID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch player: %w", err), errText(err))
	}

	history, err := b.game.History(ctx, p.ID)
	if err != nil {
		return simpleErr(fmt.Errorf("cannot fetch history: %w", err), errText(err))
	}

	if len(history) == 0 {
		return simpleResponse("Aucun raid mené pour l'instant.")
	}

	msg := ""
	for _, c := range history {
		result := "défaite"
		if c.Victory {
			result = "victoire (" + strconv.Itoa(c.GoldEarned) + " or, " +
				strconv.Itoa(c.ReputationEarned) + " réputation)"
		}
		msg += c.CompletedAt.Format("02/01 15:04") + " - contrat #" +
			strconv.FormatUint(uint64(c.RaidID), 10) + " : " + result + "\n"
	}
	return simpleResponse(msg)
}

func (b *Bot) startRaidsCmd(_ context.Context, m *discordgo.MessageCreate, _ uint) _Response {
	if err := b.channel.Set(m.ChannelID); err != nil {
		return simpleErr(fmt.Errorf("cannot set raid channel: %w", err), "")
	}

	return simpleResponse("Les récits de raids seront contés ici.")
}

func (b *Bot) shoutCmd(_ context.Context, m *discordgo.MessageCreate, _ uint) _Response {
	content := strings.Join(args(m), " ")

	channelID, err := b.channel.Get()
	if err != nil {
		return simpleErr(fmt.Errorf("cannot get channel ID: %w", err),
			"Error retrieving channel ID")
	}

	if channelID == "" {
		return simpleResponse("Set the channel with !start_raids")
	}

	return _Response{
		msgs: []_Message{
			{Channel: channelID, Message: content},
		},
	}
}

const contractSyntax = "Title_Difficulty_power_gold_reputation_xp[_ton]"

func (b *Bot) contractCmd(ctx context.Context, m *discordgo.MessageCreate, _ uint) _Response {
	content := strings.Join(args(m), " ")

	params := strings.Split(content, "_")
	if len(params) < 6 {
		return simpleErr(fmt.Errorf("syntax: %s: %w", contractSyntax, errIllegalArgument),
			"Bad arguments. Syntax: "+contractSyntax)
	}

	r := db.RaidContract{
		Title:      params[0],
		Difficulty: params[1],
		TonReward:  decimal.Zero,
	}

	for i, ptr := range []*int{&r.RequiredPower, &r.GoldReward, &r.ReputationReward, &r.ExperienceReward} {
		value, err := strconv.Atoi(params[i+2])
		if err != nil {
			return simpleErr(fmt.Errorf("cannot add contract: %w", err),
				"Illegal argument "+params[i+2]+". Syntax: "+contractSyntax)
		}
		*ptr = value
	}

	if len(params) > 6 {
		ton, err := decimal.NewFromString(params[6])
		if err != nil {
			return simpleErr(fmt.Errorf("cannot add contract: %w", err),
				"Illegal argument "+params[6]+". Syntax: "+contractSyntax)
		}
		r.TonReward = ton
	}

	if err := b.game.AddRaid(ctx, &r); err != nil {
		return simpleErr(fmt.Errorf("adding contract: %w", err), "Error adding contract")
	}

	return simpleResponse("Contract added\n" + r.String())
}
