package handlers

import (
	"Wordfuse/services/game"

	"github.com/gin-gonic/gin"
)

// Snapshot builders for the payloads broadcast to a room. Callers must hold
// the room lock while building them.

func PlayerPayload(p *game.Player) gin.H {
	return gin.H{
		"id":             p.ID,
		"name":           p.Name,
		"is_leader":      p.IsLeader,
		"is_seated":      p.IsSeated,
		"is_eliminated":  p.IsEliminated,
		"is_connected":   p.IsConnected,
		"lives":          p.Lives,
		"bonus_progress": p.Bonus.Snapshot(),
	}
}

func RulesPayload(rules *game.Rules) gin.H {
	return gin.H{
		"max_lives":              rules.MaxLives,
		"starting_lives":         rules.StartingLives,
		"bonus_template":         rules.BonusTemplate,
		"min_turn_duration":      rules.MinTurnDuration,
		"min_words_per_fragment": rules.MinWordsPerFragment,
	}
}

func RoomStatePayload(r *game.Room) gin.H {
	players := make([]gin.H, 0, len(r.Players()))
	for _, p := range r.Players() {
		players = append(players, PlayerPayload(p))
	}
	return gin.H{
		"code":              r.Code,
		"name":              r.Name,
		"leader_id":         r.LeaderID(),
		"players":           players,
		"rules":             RulesPayload(r.Rules()),
		"in_match":          r.Game() != nil,
		"countdown_running": r.IsGameTimerRunning(),
	}
}

func TurnPayload(g *game.Game) (gin.H, error) {
	current, err := g.CurrentPlayer()
	if err != nil {
		return nil, err
	}
	return gin.H{
		"player_id":    current.ID,
		"player_name":  current.Name,
		"fragment":     g.Fragment(),
		"bomb_seconds": g.BombDuration(),
	}, nil
}
