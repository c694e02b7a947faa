package event

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/syohex/go-texttable"
	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/report"
	"github.com/bobylevd/team-balancer/app/store"
)

// messageLimit is the maximum length of a Discord message, with some room
// for the code block fences.
const messageLimit = 1900

// Discord is a handler for Discord commands.
type Discord struct {
	Token            string
	AdminIDs         []string
	VoiceChannelID   string
	DefaultTeamCount int
	Service          *store.Service
	HandlerTimeout   time.Duration
	se               *discordgo.Session

	mu       sync.Mutex
	sessions map[string]string // channel ID -> latest suggestion session
}

// Run runs the Discord handler.
// Blocking call.
func (d *Discord) Run(ctx context.Context) error {
	if d.HandlerTimeout == 0 {
		d.HandlerTimeout = 5 * time.Second
	}

	se, err := discordgo.New(fmt.Sprintf("Bot %s", d.Token))
	if err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	d.se = se
	d.se.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildVoiceStates |
		discordgo.IntentMessageContent
	d.se.AddHandler(d.onMessage)

	log.Printf("[INFO] opening discord session")
	if err := d.se.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	<-ctx.Done()

	log.Printf("[WARN] stopping bot with reason: %v", context.Cause(ctx))
	if err := d.se.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}

	return nil
}

func (d *Discord) onMessage(s *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author.ID == s.State.User.ID {
		return // ignore messages from the bot
	}

	log.Printf("[DEBUG] received message from %s: %s", msg.ChannelID, msg.Content)

	msg.Content = strings.TrimSpace(msg.Content)
	if msg.Content == "" || !strings.HasPrefix(msg.Content, "!") {
		return // do nothing
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.HandlerTimeout)
	defer cancel()

	ctx = context.WithValue(ctx, senderIDKey{}, msg.Author.ID)
	ctx = context.WithValue(ctx, channelKey{}, channel{ID: msg.ChannelID, GuildID: msg.GuildID})

	command := d.route(msg.Content, msg.Author.ID)
	if command == nil {
		return // do nothing
	}
	args := strings.Fields(msg.Content)[1:] // first word is the command itself

	replyTo := &discordgo.MessageReference{MessageID: msg.ID, ChannelID: msg.ChannelID}
	reply, err := command(ctx, args)
	if err != nil {
		log.Printf("[WARN] failed to execute command: %v", err)
		reply = "failed to execute command, check logs"
	}
	for _, part := range splitMessage(reply, messageLimit) {
		if _, err = s.ChannelMessageSendReply(msg.ChannelID, part, replyTo); err != nil {
			log.Printf("[WARN] failed to send message: %v", err)
		}
	}
}

type commandFunc func(ctx context.Context, args []string) (reply string, err error)

func (d *Discord) route(content, authorID string) commandFunc {
	name := strings.Fields(content)[0]
	switch {
	case name == "!teams" && d.isAdmin(authorID):
		return d.teams
	case name == "!move" && d.isAdmin(authorID):
		return d.move
	case name == "!show":
		return d.show
	case name == "!stat":
		return d.stat
	case name == "!register":
		return d.register
	case name == "!answers":
		return d.answers
	case name == "!ping":
		return d.ping
	case name == "!help":
		return d.help
	default:
		return nil
	}
}

// teams builds suggestions for the members of the voice channel plus the
// players given in args: !teams [count] [discordID ...]
func (d *Discord) teams(ctx context.Context, args []string) (string, error) {
	teamCount := d.DefaultTeamCount
	if teamCount == 0 {
		teamCount = 2
	}
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			teamCount = n
			args = args[1:]
		}
	}
	if teamCount < 2 || teamCount > 4 {
		return "team count must be between 2 and 4", nil
	}

	req := store.SuggestRequest{TeamCount: teamCount}
	ids, err := d.voiceMembers(ctx)
	if err != nil {
		return "", fmt.Errorf("get voice channel members: %w", err)
	}
	req.PlayerIDs = ids
	for _, arg := range args {
		req.PlayerIDs = append(req.PlayerIDs, d.parseDiscordRef(arg))
	}

	sess, err := d.Service.Suggest(ctx, req)
	if err != nil {
		if errors.Is(err, store.ErrNotEnoughPlayers) {
			return fmt.Sprintf("not enough players for %d teams", teamCount), nil
		}

		var missing store.ErrMissing
		if errors.As(err, &missing) {
			for idx, id := range missing {
				missing[idx] = store.Player{ID: id}.DiscordRef()
			}
			return missing.Error() + ", use !register <name> [elo]", nil
		}

		return "", fmt.Errorf("suggest teams: %w", err)
	}

	d.rememberSession(channelFrom(ctx).ID, sess.ID)
	return renderSet(sess.Suggestions), nil
}

// move moves a player within the channel's latest suggestions:
// !move <option> <player> <from> <to>
func (d *Discord) move(ctx context.Context, args []string) (string, error) {
	if len(args) != 4 {
		return "usage: !move <option 1-3> <player> <from team> <to team>", nil
	}

	nums := make([]int, 0, 3)
	for _, arg := range []string{args[0], args[2], args[3]} {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Sprintf("%q is not a number", arg), nil
		}
		nums = append(nums, n-1) // 1-based for humans
	}

	sessID, ok := d.session(channelFrom(ctx).ID)
	if !ok {
		return "no teams in this channel yet, use !teams first", nil
	}
	sess, err := d.Service.Session(sessID)
	if err != nil {
		return "teams have expired, use !teams again", nil
	}
	if nums[0] < 0 || nums[0] >= len(sess.Suggestions) {
		return fmt.Sprintf("no option %s", args[0]), nil
	}

	id, ok := findCompetitor(sess.Suggestions[nums[0]].Partition, d.parseDiscordRef(args[1]))
	if !ok {
		return fmt.Sprintf("player %s is not in option %s", args[1], args[0]), nil
	}

	moved, err := d.Service.Move(store.MoveRequest{
		SessionID:    sessID,
		Suggestion:   nums[0],
		CompetitorID: id,
		From:         nums[1],
		To:           nums[2],
	})
	if err != nil {
		if errors.Is(err, balance.ErrNoop) || errors.Is(err, store.ErrSessionNotFound) {
			return err.Error(), nil
		}
		return "", fmt.Errorf("move player: %w", err)
	}

	return codeBlock(report.Suggestion(moved)), nil
}

// show prints the channel's latest suggestions again.
func (d *Discord) show(ctx context.Context, _ []string) (string, error) {
	sessID, ok := d.session(channelFrom(ctx).ID)
	if !ok {
		return "no teams in this channel yet", nil
	}
	sess, err := d.Service.Session(sessID)
	if err != nil {
		return "teams have expired, use !teams again", nil
	}
	return renderSet(sess.Suggestions), nil
}

func (d *Discord) stat(ctx context.Context, discordIDs []string) (string, error) {
	if len(discordIDs) == 0 {
		discordIDs = []string{senderID(ctx)}
	}

	for idx := range discordIDs {
		discordIDs[idx] = d.parseDiscordRef(discordIDs[idx])
	}

	if discordIDs[0] == "all" {
		discordIDs = []string{} // means "list all"
	}

	players, err := d.Service.List(ctx, discordIDs)
	if err != nil {
		var missing store.ErrMissing
		if errors.As(err, &missing) {
			return missing.Error(), nil
		}
		return "", fmt.Errorf("list players: %w", err)
	}

	mu := &sync.Mutex{}
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader(
		"Name",
		"Username",
		"ELO",
		"Answers",
		"Type",
		"Adjusted",
		"Stars",
	)

	ewg, ctx := errgroup.WithContext(ctx)
	for _, pl := range players {
		ewg.Go(func() error {
			c, err := pl.Competitor(d.Service.FallbackRating())
			if err != nil {
				return fmt.Errorf("player %s: %w", pl.ID, err)
			}

			username := pl.ID
			if u, err := d.se.User(pl.ID, discordgo.WithContext(ctx)); err != nil {
				log.Printf("[WARN] failed to get user %s: %v", pl.ID, err)
			} else {
				username = u.Username
			}

			mu.Lock()
			defer mu.Unlock()

			_ = tbl.AddRow(
				pl.Name,
				username,
				strconv.Itoa(c.BaseRating),
				c.Answers.String(),
				c.Archetype().String(),
				strconv.Itoa(c.Adjusted()),
				report.Stars(c),
			)

			return nil
		})
	}

	if err := ewg.Wait(); err != nil {
		return "", fmt.Errorf("get usernames: %w", err)
	}

	return codeBlock(tbl.Draw()), nil
}

// register: !register <name> [elo]
func (d *Discord) register(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "usage: !register <name> [elo]", nil
	}

	var elo *int
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return fmt.Sprintf("%q is not a valid rating", args[1]), nil
		}
		elo = &n
	}

	if err := d.Service.Register(ctx, senderID(ctx), args[0], elo); err != nil {
		return "", fmt.Errorf("register player: %w", err)
	}

	return "player registered", nil
}

// answers: !answers <early game> <boom yes|no> <late game>
func (d *Discord) answers(ctx context.Context, args []string) (string, error) {
	if len(args) != 3 {
		return "usage: !answers <early: weak|average|strong> <boom: yes|no> <late: weak|average|strong>", nil
	}

	a, err := parseAnswers(args)
	if err != nil {
		return err.Error(), nil
	}

	if err := d.Service.SetAnswers(ctx, senderID(ctx), a); err != nil {
		var missing store.ErrMissing
		if errors.As(err, &missing) {
			return "register first: !register <name> [elo]", nil
		}
		return "", fmt.Errorf("set answers: %w", err)
	}

	c := balance.Classify(0, a)
	return fmt.Sprintf("answers saved, you are %s (%+d)", c.Archetype, c.Delta), nil
}

func (d *Discord) isAdmin(discordID string) bool {
	for _, id := range d.AdminIDs {
		if discordID == id {
			return true
		}
	}
	return false
}

func (d *Discord) ping(context.Context, []string) (string, error) { return "pong!", nil }

func (d *Discord) parseDiscordRef(ref string) string {
	for _, prefix := range []string{"<@!", "<@"} {
		if strings.HasPrefix(ref, prefix) && strings.HasSuffix(ref, ">") {
			return ref[len(prefix) : len(ref)-1]
		}
	}
	return ref
}

// voiceMembers returns the users sitting in the configured voice channel.
func (d *Discord) voiceMembers(ctx context.Context) ([]string, error) {
	if d.VoiceChannelID == "" || d.se == nil {
		return nil, nil
	}

	g, err := d.se.State.Guild(channelFrom(ctx).GuildID)
	if err != nil {
		return nil, fmt.Errorf("get guild: %w", err)
	}

	var ids []string
	for _, vs := range g.VoiceStates {
		if vs.ChannelID == d.VoiceChannelID {
			ids = append(ids, vs.UserID)
		}
	}
	return ids, nil
}

func (d *Discord) rememberSession(channelID, sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sessions == nil {
		d.sessions = map[string]string{}
	}
	d.sessions[channelID] = sessionID
}

func (d *Discord) session(channelID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.sessions[channelID]
	return id, ok
}

func (d *Discord) help(context.Context, []string) (reply string, err error) {
	return `
!teams [2-4] [discordID ...] - takımları kur (ses kanalındakiler + verilenler)
!move <öneri> <oyuncu> <takımdan> <takıma> - oyuncuyu başka takıma taşı
!show - son önerileri tekrar göster
!register <isim> [elo] - kayıt ol
!answers <feudal: weak|average|strong> <boom: yes|no> <late: weak|average|strong> - anket cevapları
!stat [discordID1 discordID2 ... | all] - oyuncu istatistikleri
!ping - pong!
!help - bu mesaj
	`, nil
}

// findCompetitor resolves a player reference (ID or name) inside a partition.
func findCompetitor(p balance.Partition, ref string) (string, bool) {
	for _, t := range p.Teams {
		for _, c := range t.Members {
			if c.ID == ref {
				return c.ID, true
			}
		}
	}
	for _, t := range p.Teams {
		for _, c := range t.Members {
			if strings.EqualFold(c.Name, ref) {
				return c.ID, true
			}
		}
	}
	return "", false
}

func parseAnswers(args []string) (balance.Answers, error) {
	early, err := balance.ParseStrength(args[0])
	if err != nil {
		return balance.Answers{}, err
	}
	boom, err := balance.ParseYesNo(args[1])
	if err != nil {
		return balance.Answers{}, err
	}
	late, err := balance.ParseStrength(args[2])
	if err != nil {
		return balance.Answers{}, err
	}
	return balance.Answers{EarlyGame: early, PrefersBoom: boom, LateGame: late}, nil
}

func renderSet(suggestions []balance.Suggestion) string {
	blocks := make([]string, len(suggestions))
	for i, s := range suggestions {
		blocks[i] = codeBlock(report.Suggestion(s))
	}
	return strings.Join(blocks, "\n")
}

func codeBlock(s string) string { return "```\n" + s + "\n```" }

// splitMessage cuts s into parts of at most limit bytes on line boundaries.
// A single line longer than limit is sent as is.
func splitMessage(s string, limit int) []string {
	if len(s) <= limit {
		return []string{s}
	}

	var parts []string
	var b strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		if b.Len() > 0 && b.Len()+len(line) > limit {
			parts = append(parts, b.String())
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}

type senderIDKey struct{}

func senderID(ctx context.Context) string {
	if v := ctx.Value(senderIDKey{}); v != nil {
		return v.(string)
	}
	return ""
}

type channelKey struct{}

type channel struct {
	ID      string
	GuildID string
}

func channelFrom(ctx context.Context) channel {
	if v, ok := ctx.Value(channelKey{}).(channel); ok {
		return v
	}
	return channel{}
}
