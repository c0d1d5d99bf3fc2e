// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/tuning"
)

// Store persists groups and their members. It satisfies tuning.Membership.
type Store struct {
	conn *sql.DB
}

var _ tuning.Membership = (*Store)(nil)

func NewStore(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// CreateGroup creates a group whose first member is its leader.
func (s *Store) CreateGroup(ctx context.Context, name, leaderName string) (models.Group, models.Member, error) {
	name = strings.TrimSpace(name)
	leaderName = strings.TrimSpace(leaderName)
	if name == "" {
		return models.Group{}, models.Member{}, fmt.Errorf("%w: group name is required", tuning.ErrInvalidInput)
	}
	if leaderName == "" {
		return models.Group{}, models.Member{}, fmt.Errorf("%w: leader name is required", tuning.ErrInvalidInput)
	}

	now := time.Now()
	group := models.Group{ID: auth.NewID(), Name: name, CreatedAt: now}
	leader := models.Member{
		ID:          auth.NewID(),
		GroupID:     group.ID,
		DisplayName: leaderName,
		IsLeader:    true,
		JoinedAt:    now,
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Group{}, models.Member{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO study_group (id, name, created_at)
		VALUES ($1, $2, $3)
	`, group.ID, group.Name, now.UnixMilli())
	if err != nil {
		return models.Group{}, models.Member{}, fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_member (id, group_id, display_name, is_leader, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, leader.ID, group.ID, leader.DisplayName, true, now.UnixMilli())
	if err != nil {
		return models.Group{}, models.Member{}, fmt.Errorf("failed to insert leader: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Group{}, models.Member{}, fmt.Errorf("failed to commit group: %w", err)
	}

	slog.Info("group created", "group_id", group.ID, "leader_id", leader.ID)
	return group, leader, nil
}

// AddMember adds a member to a group. Only the leader may add members.
// Sessions created earlier keep their participant snapshot.
func (s *Store) AddMember(ctx context.Context, groupID, callerID, displayName string) (models.Member, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.Member{}, fmt.Errorf("%w: display name is required", tuning.ErrInvalidInput)
	}

	leaderID, err := s.LeaderID(ctx, groupID)
	if err != nil {
		return models.Member{}, err
	}
	if callerID == "" || callerID != leaderID {
		return models.Member{}, fmt.Errorf("%w: only the group leader can add members", tuning.ErrForbidden)
	}

	now := time.Now()
	member := models.Member{
		ID:          auth.NewID(),
		GroupID:     groupID,
		DisplayName: displayName,
		JoinedAt:    now,
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO group_member (id, group_id, display_name, is_leader, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, member.ID, groupID, displayName, false, now.UnixMilli())
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to insert member: %w", err)
	}

	slog.Info("member added", "group_id", groupID, "member_id", member.ID)
	return member, nil
}

// Members returns the group's roster ordered by join time.
func (s *Store) Members(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, group_id, display_name, is_leader, joined_at
		FROM group_member
		WHERE group_id = $1
		ORDER BY joined_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var joinedAt int64
		if err := rows.Scan(&m.ID, &m.GroupID, &m.DisplayName, &m.IsLeader, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.JoinedAt = time.UnixMilli(joinedAt)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}

	// Every group has a leader, so an empty roster means no such group.
	if len(members) == 0 {
		return nil, tuning.ErrGroupNotFound
	}
	return members, nil
}

// LeaderID returns the id of the group's leader.
func (s *Store) LeaderID(ctx context.Context, groupID string) (string, error) {
	var id string
	err := s.conn.QueryRowContext(ctx, `
		SELECT id FROM group_member
		WHERE group_id = $1 AND is_leader = $2
	`, groupID, true).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", tuning.ErrGroupNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query group leader: %w", err)
	}
	return id, nil
}

// Group returns a group by id.
func (s *Store) Group(ctx context.Context, groupID string) (models.Group, error) {
	var g models.Group
	var createdAt int64
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM study_group WHERE id = $1
	`, groupID).Scan(&g.ID, &g.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, tuning.ErrGroupNotFound
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("failed to query group: %w", err)
	}
	g.CreatedAt = time.UnixMilli(createdAt)
	return g, nil
}
