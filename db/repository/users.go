package repository

import (
	"context"
	"database/sql"

	"twitch_discord_bot/internal/models"

	"github.com/lib/pq"
)

func (dbr *DBRepository) GetAllUsers(ctx context.Context) (users []models.User, err error) {

	query := `
		select
			uid,
			twitch_login,
			twitch_name,
			twitch_id,
			stream_online_message,
			discord_channel_id,
			active,
			created_at,
			updated_at
		from users
		order by uid;
	`

	err = dbr.db.SelectContext(ctx, &users, query)

	return
}

func (dbr *DBRepository) GetUserByTwitchID(ctx context.Context, twitchID string) (user *models.User, err error) {

	query := `
		select
			uid,
			twitch_login,
			twitch_name,
			twitch_id,
			stream_online_message,
			discord_channel_id,
			active,
			created_at,
			updated_at
		from users
		where twitch_id = $1;
	`

	var u models.User
	err = dbr.db.GetContext(ctx, &u, query, twitchID)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user = &u

	return
}

func (dbr *DBRepository) GetUserByTwitchLogin(ctx context.Context, login string) (user *models.User, err error) {

	query := `
		select
			uid,
			twitch_login,
			twitch_name,
			twitch_id,
			stream_online_message,
			discord_channel_id,
			active,
			created_at,
			updated_at
		from users
		where twitch_login = $1;
	`

	var u models.User
	err = dbr.db.GetContext(ctx, &u, query, login)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user = &u

	return
}

func (dbr *DBRepository) CreateUser(ctx context.Context, user models.User) (uid uint64, err error) {

	query := `
		insert into users (twitch_login, twitch_name, twitch_id, stream_online_message, discord_channel_id, active)
			values ($1, $2, $3, $4, $5, $6)
		returning uid;
	`

	err = dbr.db.GetContext(ctx, &uid, query,
		user.TwitchLogin,
		user.TwitchName,
		user.TwitchID,
		user.StreamOnlineMessage,
		user.DiscordChannelID,
		user.Active,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return 0, models.ErrUserAlreadyExists
		}
		return 0, err
	}

	return
}

func (dbr *DBRepository) UpdateUser(ctx context.Context, user models.User) (err error) {

	query := `
		update users
			set (twitch_login, twitch_name, stream_online_message, discord_channel_id, active, updated_at)
				= ($1, $2, $3, $4, $5, now())
		where uid = $6;
	`

	res, err := dbr.db.ExecContext(ctx, query,
		user.TwitchLogin,
		user.TwitchName,
		user.StreamOnlineMessage,
		user.DiscordChannelID,
		user.Active,
		user.UID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n < 1 {
		return models.ErrUserNotFound
	}

	return
}

func (dbr *DBRepository) DeleteUser(ctx context.Context, uid uint64) (err error) {

	query := `
		delete from users where uid = $1;
	`

	res, err := dbr.db.ExecContext(ctx, query, uid)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n < 1 {
		return models.ErrUserNotFound
	}

	return
}
