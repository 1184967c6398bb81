package lunch

import (
	"anisbee/internal/db"
)

// fameWindowDays is the rolling hall-of-fame window: today plus the six
// preceding calendar days.
const fameWindowDays = 7

// fameWindowSince returns the earliest day key inside the rolling
// window, in the engine's configured timezone.
func (e *Engine) fameWindowSince() string {
	settings := e.CurrentSettings()
	loc := Location(settings.Timezone)
	return DayKey(e.now().AddDate(0, 0, -(fameWindowDays-1)), loc)
}

// YesterdayWinner returns yesterday's winning menu, or nil when no round
// existed for that date or the round produced no winner.
func (e *Engine) YesterdayWinner() *WinnerMenu {
	if e.db == nil {
		return nil
	}
	settings := e.CurrentSettings()
	loc := Location(settings.Timezone)
	date := DayKey(e.now().AddDate(0, 0, -1), loc)

	var row struct {
		RoundDate      string
		RestaurantName string
		LinkURL        string
		AnonName       string
	}
	err := e.db.Table("rounds").
		Select("rounds.round_date, recommendations.restaurant_name, recommendations.link_url, users.anon_name").
		Joins("JOIN recommendations ON recommendations.id = rounds.winner_recommendation_id").
		Joins("JOIN users ON users.id = recommendations.user_id").
		Where("rounds.round_date = ? AND rounds.status = ?", date, StatusClosed).
		Take(&row).Error
	if err != nil {
		return nil
	}
	return &WinnerMenu{
		Date:           row.RoundDate,
		RestaurantName: row.RestaurantName,
		AnonName:       row.AnonName,
		LinkURL:        row.LinkURL,
	}
}

// WinnerMenus lists the winning menu for each of the last seven calendar
// days that produced a winner, newest first. Days without a closed,
// winning round are omitted rather than zero-filled.
func (e *Engine) WinnerMenus() []WinnerMenu {
	if e.db == nil {
		return nil
	}
	since := e.fameWindowSince()

	var rows []struct {
		RoundDate      string
		RestaurantName string
		LinkURL        string
		AnonName       string
	}
	err := e.db.Table("rounds").
		Select("rounds.round_date, recommendations.restaurant_name, recommendations.link_url, users.anon_name").
		Joins("JOIN recommendations ON recommendations.id = rounds.winner_recommendation_id").
		Joins("JOIN users ON users.id = recommendations.user_id").
		Where("rounds.round_date >= ? AND rounds.status = ?", since, StatusClosed).
		Order("rounds.round_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil
	}
	menus := make([]WinnerMenu, 0, len(rows))
	for _, row := range rows {
		menus = append(menus, WinnerMenu{
			Date:           row.RoundDate,
			RestaurantName: row.RestaurantName,
			AnonName:       row.AnonName,
			LinkURL:        row.LinkURL,
		})
	}
	return menus
}

// HallOfFame ranks identities by wins inside the rolling window. Equal
// win counts order by user id so the leaderboard is stable across
// requests.
func (e *Engine) HallOfFame(limit int) []FameEntry {
	if e.db == nil {
		return nil
	}
	if limit <= 0 {
		limit = e.cfg.HallOfFameLimit
	}
	since := e.fameWindowSince()

	var rows []struct {
		UserID      uint
		AnonName    string
		AvatarColor string
		Wins        int
	}
	err := e.db.Table("rounds").
		Select("users.id AS user_id, users.anon_name, users.avatar_color, COUNT(*) AS wins").
		Joins("JOIN recommendations ON recommendations.id = rounds.winner_recommendation_id").
		Joins("JOIN users ON users.id = recommendations.user_id").
		Where("rounds.round_date >= ? AND rounds.status = ?", since, StatusClosed).
		Group("users.id, users.anon_name, users.avatar_color").
		Order("wins DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil
	}
	entries := make([]FameEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FameEntry{
			UserID:      row.UserID,
			AnonName:    row.AnonName,
			AvatarColor: row.AvatarColor,
			Wins:        row.Wins,
		})
	}
	return entries
}

// WinCount is the all-time number of rounds this identity has won; the
// profile badge reads it.
func (e *Engine) WinCount(userID uint) int {
	if e.db == nil || userID == 0 {
		return 0
	}
	var count int64
	err := e.db.Model(&db.Round{}).
		Joins("JOIN recommendations ON recommendations.id = rounds.winner_recommendation_id").
		Where("rounds.status = ? AND recommendations.user_id = ?", StatusClosed, userID).
		Count(&count).Error
	if err != nil {
		return 0
	}
	return int(count)
}
