package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"groupcal/core/database"
	"groupcal/core/logger"
	"groupcal/core/params"
	"groupcal/modules/group/entity"

	"github.com/google/uuid"
)

// GroupRepository handles group and membership database operations
type GroupRepository struct {
	DB database.Database
}

// NewGroupRepository creates a new repository instance
func NewGroupRepository(db database.Database) *GroupRepository {
	return &GroupRepository{DB: db}
}

// GroupRepositoryInterface defines the repository contract
type GroupRepositoryInterface interface {
	// Groups
	CreateGroup(ctx context.Context, group *entity.Group) (*entity.Group, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	GetGroupByJoinKey(ctx context.Context, joinKey string) (*entity.Group, error)
	GetGroupsByUserID(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedGroupEntity, error)
	UpdateJoinKey(ctx context.Context, groupID uuid.UUID, joinKey string) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	// Membership
	AddMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) error
	GetMembers(ctx context.Context, groupID uuid.UUID) ([]entity.MemberDetail, error)
	IsMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (bool, error)
}

// ===================== Groups =====================

func (r *GroupRepository) CreateGroup(ctx context.Context, group *entity.Group) (*entity.Group, error) {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("GroupRepository:CreateGroup:BeginTx", err)
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO groups (name, description, owner_id, join_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, owner_id, join_key, created_at, updated_at
	`

	var created entity.Group
	err = tx.GetContext(ctx, &created, query,
		group.Name, group.Description, group.OwnerID, group.JoinKey)
	if err != nil {
		logger.Error("GroupRepository:CreateGroup", err)
		return nil, err
	}

	// The creator is always the first member
	memberQuery := `
		INSERT INTO group_members (group_id, user_id, created_at)
		VALUES ($1, $2, NOW())
	`
	if _, err := tx.ExecContext(ctx, memberQuery, created.ID, group.OwnerID); err != nil {
		logger.Error("GroupRepository:CreateGroup:AddOwner", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("GroupRepository:CreateGroup:Commit", err)
		return nil, err
	}

	return &created, nil
}

func (r *GroupRepository) GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	query := `
		SELECT id, name, description, owner_id, join_key, created_at, updated_at
		FROM groups WHERE id = $1
	`

	var group entity.Group
	err := r.DB.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GroupRepository:GetGroupByID", err)
		return nil, err
	}

	return &group, nil
}

func (r *GroupRepository) GetGroupByJoinKey(ctx context.Context, joinKey string) (*entity.Group, error) {
	query := `
		SELECT id, name, description, owner_id, join_key, created_at, updated_at
		FROM groups WHERE join_key = $1
	`

	var group entity.Group
	err := r.DB.GetContext(ctx, &group, query, joinKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GroupRepository:GetGroupByJoinKey", err)
		return nil, err
	}

	return &group, nil
}

func (r *GroupRepository) GetGroupsByUserID(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedGroupEntity, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	baseQuery := `
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
	`

	conditions := []string{"gm.user_id = $1"}
	args := []any{userID}
	argIndex := 2

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("g.name ILIKE $%d", argIndex))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) " + baseQuery + whereClause

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, countQuery, args...)
	if err != nil {
		logger.Error("GroupRepository:GetGroupsByUserID - Count", err)
		return nil, err
	}

	dataQuery := `
		SELECT g.id, g.name, g.description, g.owner_id, g.join_key, g.created_at, g.updated_at
	` + baseQuery + whereClause + `
		ORDER BY g.created_at DESC
		LIMIT $` + fmt.Sprintf("%d", argIndex) + ` OFFSET $` + fmt.Sprintf("%d", argIndex+1)

	args = append(args, params.PageSize, offset)

	var groups []entity.Group
	err = r.DB.SelectContext(ctx, &groups, dataQuery, args...)
	if err != nil {
		logger.Error("GroupRepository:GetGroupsByUserID - Select", err)
		return nil, err
	}

	return &entity.PaginatedGroupEntity{
		Items:      groups,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *GroupRepository) UpdateJoinKey(ctx context.Context, groupID uuid.UUID, joinKey string) error {
	query := `UPDATE groups SET join_key = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, groupID, joinKey)
	if err != nil {
		logger.Error("GroupRepository:UpdateJoinKey", err)
		return err
	}
	return nil
}

func (r *GroupRepository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM groups WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("GroupRepository:DeleteGroup", err)
		return err
	}
	return nil
}

// ===================== Membership =====================

func (r *GroupRepository) AddMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) error {
	query := `
		INSERT INTO group_members (group_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		logger.Error("GroupRepository:AddMember", err)
		return err
	}
	return nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := r.DB.SQLx().ExecContext(ctx, query, groupID, userID)
	if err != nil {
		logger.Error("GroupRepository:RemoveMember", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("GroupRepository:RemoveMember - RowsAffected", err)
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s is not in group %s", userID, groupID)
	}

	return nil
}

func (r *GroupRepository) GetMembers(ctx context.Context, groupID uuid.UUID) ([]entity.MemberDetail, error) {
	query := `
		SELECT gm.user_id, u.username, u.email, gm.created_at AS joined_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.created_at
	`

	var members []entity.MemberDetail
	err := r.DB.SelectContext(ctx, &members, query, groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.MemberDetail{}, nil
		}
		logger.Error("GroupRepository:GetMembers", err)
		return nil, err
	}

	return members, nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)
	`

	var exists bool
	err := r.DB.GetContext(ctx, &exists, query, groupID, userID)
	if err != nil {
		logger.Error("GroupRepository:IsMember", err)
		return false, err
	}

	return exists, nil
}
