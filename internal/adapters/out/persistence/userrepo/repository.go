package userrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/persistence/locking"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add registers a user. Registration itself lives outside this service; Add
// is used to seed the directory.
func (r *GormUserRepository) Add(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	dto := fromDomain(u)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return first(r.db.WithContext(ctx), id)
}

func (r *GormUserRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return first(locking.ForUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormUserRepository) FindByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}

	var dtos []UserDTO
	if err := r.db.WithContext(ctx).Where("role = ?", role.String()).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// FindDriverCandidates pre-filters on role, active flag and capacity. The
// matcher applies the full rules again, including exclusivity.
func (r *GormUserRepository) FindDriverCandidates(ctx context.Context, minCapacity kernel.Weight) ([]services.DriverCandidate, error) {
	db := r.db.WithContext(ctx)

	var dtos []UserDTO
	err := db.Where("role = ? AND active = ? AND capacity >= ?",
		user.RoleDriver.String(), true, minCapacity.Decimal()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []services.DriverCandidate{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	deliveries, err := activeDeliveries(db, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.DriverCandidate, 0, len(dtos))
	for _, dto := range dtos {
		driver, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		candidates = append(candidates, services.DriverCandidate{
			Driver:           driver,
			ActiveDeliveries: deliveries[dto.ID],
		})
	}
	return candidates, nil
}

// LockDriverCandidate takes the driver row lock and then reads the driver's
// active deliveries, so a concurrent dispatch holding the same lock has
// either committed its assignment or not started.
func (r *GormUserRepository) LockDriverCandidate(ctx context.Context, driverID kernel.UUID) (services.DriverCandidate, error) {
	if err := driverID.Validate(); err != nil {
		return services.DriverCandidate{}, err
	}

	db := r.db.WithContext(ctx)
	driver, err := first(locking.ForUpdate(db), driverID)
	if err != nil {
		return services.DriverCandidate{}, err
	}
	if !driver.HasRole(user.RoleDriver) {
		return services.DriverCandidate{}, errs.NewObjectNotFoundError("driver", driverID.String())
	}

	deliveries, err := activeDeliveries(db, []uuid.UUID{driverID.Bytes()})
	if err != nil {
		return services.DriverCandidate{}, err
	}
	return services.DriverCandidate{
		Driver:           driver,
		ActiveDeliveries: deliveries[driverID.Bytes()],
	}, nil
}

func first(db *gorm.DB, id kernel.UUID) (*user.User, error) {
	var dto UserDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func toDomainAll(dtos []UserDTO) ([]*user.User, error) {
	users := make([]*user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

type deliveryRow struct {
	DriverID uuid.UUID
	Status   string
}

func activeDeliveries(db *gorm.DB, driverIDs []uuid.UUID) (map[uuid.UUID][]order.Status, error) {
	active := make([]string, 0, len(order.ActiveDeliveryStatuses()))
	for _, s := range order.ActiveDeliveryStatuses() {
		active = append(active, s.String())
	}

	var rows []deliveryRow
	err := db.Table("orders").
		Select("driver_id, status").
		Where("driver_id IN ? AND status IN ?", driverIDs, active).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID][]order.Status, len(driverIDs))
	for _, row := range rows {
		status, parseErr := order.ParseStatus(row.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		result[row.DriverID] = append(result[row.DriverID], status)
	}
	return result, nil
}
