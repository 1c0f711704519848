package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPermissionNotFound = errors.New("permission not found")
	ErrPermissionExists   = errors.New("permission name already exists")
	ErrPermissionInUse    = errors.New("permission is assigned to roles")
)

type CreatePermissionInput struct {
	Name        string
	DisplayName string
	Description string
	Module      string
	Action      string
	IsActive    *bool
}

type UpdatePermissionInput struct {
	DisplayName *string
	Description *string
	IsActive    *bool
}

type PermissionListOptions struct {
	Module    string
	IsActive  *bool
	Search    string
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}

type PermissionService interface {
	ListPermissions(opts PermissionListOptions) ([]model.Permission, int64, error)
	ListGroupedByModule() (map[string][]model.Permission, error)
	GetPermissionByID(id uuid.UUID) (*model.Permission, error)
	CreatePermission(input CreatePermissionInput) (*model.Permission, error)
	UpdatePermission(id uuid.UUID, input UpdatePermissionInput) (*model.Permission, error)
	DeletePermission(id uuid.UUID) error
	SeedDefaults(defaults []model.Permission) (int, error)
}

type permissionService struct {
	permissionRepo repository.PermissionRepository
}

func NewPermissionService(permissionRepo repository.PermissionRepository) PermissionService {
	return &permissionService{permissionRepo: permissionRepo}
}

func (s *permissionService) ListPermissions(opts PermissionListOptions) ([]model.Permission, int64, error) {
	return s.permissionRepo.FindWithFilter(repository.PermissionFilter{
		Module:    opts.Module,
		IsActive:  opts.IsActive,
		Search:    opts.Search,
		SortBy:    opts.SortBy,
		Ascending: opts.Ascending,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
}

func (s *permissionService) ListGroupedByModule() (map[string][]model.Permission, error) {
	permissions, _, err := s.permissionRepo.FindWithFilter(repository.PermissionFilter{
		SortBy:    "module",
		Ascending: true,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.Permission)
	for _, p := range permissions {
		grouped[p.Module] = append(grouped[p.Module], p)
	}
	return grouped, nil
}

func (s *permissionService) GetPermissionByID(id uuid.UUID) (*model.Permission, error) {
	permission, err := s.permissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	return permission, nil
}

// defaultDisplayName derives a readable label from a "module.action" name,
// e.g. "products.create" becomes "Products Create".
func defaultDisplayName(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func (s *permissionService) CreatePermission(input CreatePermissionInput) (*model.Permission, error) {
	name := strings.TrimSpace(input.Name)
	module := strings.TrimSpace(input.Module)
	action := strings.TrimSpace(input.Action)
	if name == "" && module != "" && action != "" {
		name = fmt.Sprintf("%s.%s", module, action)
	}
	if module == "" || action == "" {
		if before, after, ok := strings.Cut(name, "."); ok {
			if module == "" {
				module = before
			}
			if action == "" {
				action = after
			}
		}
	}

	count, err := s.permissionRepo.CountByName(name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrPermissionExists
	}

	permission := &model.Permission{
		Name:        name,
		DisplayName: input.DisplayName,
		Description: input.Description,
		Module:      module,
		Action:      action,
		IsActive:    true,
	}
	if permission.DisplayName == "" {
		permission.DisplayName = defaultDisplayName(name)
	}
	if input.IsActive != nil {
		permission.IsActive = *input.IsActive
	}

	if err := s.permissionRepo.Create(permission); err != nil {
		return nil, err
	}

	logger.Info("Permission created", map[string]interface{}{
		"permission_id": permission.ID,
		"name":          permission.Name,
	})
	return permission, nil
}

// UpdatePermission changes presentation and activation fields only. The
// name, module and action are immutable once created; roles reference
// permissions by name.
func (s *permissionService) UpdatePermission(id uuid.UUID, input UpdatePermissionInput) (*model.Permission, error) {
	permission, err := s.GetPermissionByID(id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		permission.DisplayName = *input.DisplayName
	}
	if input.Description != nil {
		permission.Description = *input.Description
	}
	if input.IsActive != nil {
		permission.IsActive = *input.IsActive
	}

	if err := s.permissionRepo.Update(permission); err != nil {
		return nil, err
	}
	return permission, nil
}

func (s *permissionService) DeletePermission(id uuid.UUID) error {
	permission, err := s.permissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionNotFound
		}
		return err
	}
	links, err := s.permissionRepo.CountRoleLinks(permission.ID)
	if err != nil {
		return err
	}
	if links > 0 {
		return ErrPermissionInUse
	}

	if err := s.permissionRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Permission deleted", map[string]interface{}{
		"permission_id": id,
		"name":          permission.Name,
	})
	return nil
}

// SeedDefaults inserts any of the given permissions that do not exist yet
// and returns how many were created.
func (s *permissionService) SeedDefaults(defaults []model.Permission) (int, error) {
	created := 0
	for _, def := range defaults {
		count, err := s.permissionRepo.CountByName(def.Name)
		if err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		p := def
		p.ID = uuid.Nil
		p.IsActive = true
		if p.DisplayName == "" {
			p.DisplayName = defaultDisplayName(p.Name)
		}
		if err := s.permissionRepo.Create(&p); err != nil {
			return created, err
		}
		created++
	}

	logger.Info("Default permissions seeded", map[string]interface{}{
		"created": created,
	})
	return created, nil
}
