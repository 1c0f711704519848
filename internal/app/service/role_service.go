package service

import (
	"errors"
	"strings"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleExists          = errors.New("role name already exists")
	ErrRoleInUse           = errors.New("role is assigned to users")
	ErrSystemRoleProtected = errors.New("system role cannot be modified")
	ErrUnknownPermissions  = errors.New("one or more permissions do not exist")
)

type CreateRoleInput struct {
	Name          string
	DisplayName   string
	Description   string
	IsActive      *bool
	PermissionIDs []uuid.UUID
}

type UpdateRoleInput struct {
	Name        *string
	DisplayName *string
	Description *string
	IsActive    *bool
}

type RoleListOptions struct {
	IsActive  *bool
	IsSystem  *bool
	Search    string
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}

type RoleService interface {
	ListRoles(opts RoleListOptions) ([]model.Role, int64, error)
	GetRoleByID(id uuid.UUID) (*model.Role, error)
	GetRoleByName(name string) (*model.Role, error)
	CreateRole(input CreateRoleInput) (*model.Role, error)
	UpdateRole(id uuid.UUID, input UpdateRoleInput) (*model.Role, error)
	AssignPermissions(id uuid.UUID, permissionIDs []uuid.UUID) (*model.Role, error)
	DeleteRole(id uuid.UUID) error
	GetSimpleList() ([]model.Role, error)
	GetStats() (*repository.RoleStats, error)
}

type roleService struct {
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

func NewRoleService(roleRepo repository.RoleRepository, permissionRepo repository.PermissionRepository) RoleService {
	return &roleService{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

func (s *roleService) ListRoles(opts RoleListOptions) ([]model.Role, int64, error) {
	return s.roleRepo.FindWithFilter(repository.RoleFilter{
		IsActive:  opts.IsActive,
		IsSystem:  opts.IsSystem,
		Search:    opts.Search,
		SortBy:    opts.SortBy,
		Ascending: opts.Ascending,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
}

func (s *roleService) GetRoleByID(id uuid.UUID) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

func (s *roleService) GetRoleByName(name string) (*model.Role, error) {
	role, err := s.roleRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

func (s *roleService) resolvePermissions(ids []uuid.UUID) ([]model.Permission, error) {
	permissions, err := s.permissionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(permissions) != len(ids) {
		return nil, ErrUnknownPermissions
	}
	return permissions, nil
}

func (s *roleService) CreateRole(input CreateRoleInput) (*model.Role, error) {
	name := strings.TrimSpace(input.Name)

	if _, err := s.roleRepo.FindByName(name); err == nil {
		return nil, ErrRoleExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var permissions []model.Permission
	if len(input.PermissionIDs) > 0 {
		var err error
		permissions, err = s.resolvePermissions(input.PermissionIDs)
		if err != nil {
			return nil, err
		}
	}

	role := &model.Role{
		Name:        name,
		DisplayName: input.DisplayName,
		Description: input.Description,
		IsActive:    true,
		Permissions: permissions,
	}
	if role.DisplayName == "" && name != "" {
		role.DisplayName = strings.ToUpper(name[:1]) + name[1:]
	}
	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}

	if err := s.roleRepo.Create(role); err != nil {
		return nil, err
	}

	logger.Info("Role created", map[string]interface{}{
		"role_id": role.ID,
		"name":    role.Name,
	})
	return role, nil
}

func (s *roleService) UpdateRole(id uuid.UUID, input UpdateRoleInput) (*model.Role, error) {
	role, err := s.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, ErrSystemRoleProtected
	}

	if input.Name != nil && *input.Name != role.Name {
		name := strings.TrimSpace(*input.Name)
		if _, err := s.roleRepo.FindByName(name); err == nil {
			return nil, ErrRoleExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		role.Name = name
	}
	if input.DisplayName != nil {
		role.DisplayName = *input.DisplayName
	}
	if input.Description != nil {
		role.Description = *input.Description
	}
	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}

	if err := s.roleRepo.Update(role); err != nil {
		return nil, err
	}
	return role, nil
}

// AssignPermissions replaces the role's entire permission set. Unknown
// permission IDs fail the whole call before anything is written.
func (s *roleService) AssignPermissions(id uuid.UUID, permissionIDs []uuid.UUID) (*model.Role, error) {
	role, err := s.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, ErrSystemRoleProtected
	}

	permissions, err := s.resolvePermissions(permissionIDs)
	if err != nil {
		return nil, err
	}

	if err := s.roleRepo.ReplacePermissions(role, permissions); err != nil {
		return nil, err
	}

	logger.Info("Role permissions replaced", map[string]interface{}{
		"role_id":          role.ID,
		"permission_count": len(permissions),
	})
	return role, nil
}

func (s *roleService) DeleteRole(id uuid.UUID) error {
	role, err := s.GetRoleByID(id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRoleProtected
	}

	users, err := s.roleRepo.CountUsers(id)
	if err != nil {
		return err
	}
	if users > 0 {
		return ErrRoleInUse
	}

	if err := s.roleRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Role deleted", map[string]interface{}{
		"role_id": id,
		"name":    role.Name,
	})
	return nil
}

func (s *roleService) GetSimpleList() ([]model.Role, error) {
	return s.roleRepo.FindActiveSimple()
}

func (s *roleService) GetStats() (*repository.RoleStats, error) {
	return s.roleRepo.Stats()
}
