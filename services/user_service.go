package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/config"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/mailer"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/utils"
	"gorm.io/datatypes"
)

const generatedPasswordLength = 12

// UserService handles user accounts and registration requests
type UserService struct {
	cfg          *config.Config
	users        userStore
	roles        roleStore
	departments  departmentStore
	technologies ReferenceChecker
	guard        RelationGuard
	tx           Transactor
	tokens       *TokenService
	mail         mailer.Sender
	resolver     *access.UserResolver
	log          *logrus.Logger
}

// NewUserService creates a new user service instance
func NewUserService(cfg *config.Config, users userStore, roles roleStore, departments departmentStore,
	technologies ReferenceChecker, guard RelationGuard, tx Transactor, tokens *TokenService,
	mail mailer.Sender, resolvers *access.Resolvers, log *logrus.Logger) *UserService {
	return &UserService{
		cfg:          cfg,
		users:        users,
		roles:        roles,
		departments:  departments,
		technologies: technologies,
		guard:        guard,
		tx:           tx,
		tokens:       tokens,
		mail:         mail,
		resolver:     resolvers.Users,
		log:          log,
	}
}

// Register creates an account with a generated password and emails it to the user
func (s *UserService) Register(ctx context.Context, actor access.Actor, req dto.RegisterUserRequest) (*models.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, common.Internal(err)
	}
	if exists {
		return nil, common.Validation("Email already exists")
	}
	if err := s.checkReferences(ctx, &req.RoleID, req.DepartmentIDs, req.TechnologyIDs); err != nil {
		return nil, err
	}

	password, err := utils.GenerateSecurePassword(generatedPasswordLength)
	if err != nil {
		return nil, common.Internal(err)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, common.Internal(err)
	}

	user := &models.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      hash,
		DateOfBirth:   req.DateOfBirth,
		CCCD:          req.CCCD,
		Phone:         req.Phone,
		TechnologyIDs: pq.StringArray(uniqueIDs(req.TechnologyIDs)),
		RoleID:        req.RoleID,
		YearExp:       req.YearExp,
		Languages:     pq.StringArray(req.Languages),
		Certificates:  datatypes.JSONSlice[models.Certificate](req.Certificates),
		DepartmentIDs: pq.StringArray(uniqueIDs(req.DepartmentIDs)),
	}
	user.StampCreate(actor.ID)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, common.Internal(err)
	}

	msg, err := mailer.AccountCreated(user.Email, user.Name, password, strings.TrimRight(s.cfg.FrontendURL, "/")+"/login")
	if err != nil {
		return nil, common.Internal(err)
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return nil, common.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"new_user_id": user.ID, "user_id": actor.ID}).Info("✅ User registered")
	return user, nil
}

// RequestCreate lets a manager ask an admin to create an employee in one of
// the manager's departments. The request travels as a signed token.
func (s *UserService) RequestCreate(ctx context.Context, actor access.Actor, req dto.RegisterUserRequest) error {
	role, err := s.roles.FindByID(ctx, req.RoleID)
	if err != nil && !errors.Is(err, common.ErrRecordNotFound) {
		return common.Internal(err)
	}
	if err != nil || role.Name != access.EmployeeRoleName {
		return common.Validation("You must assign the role of 'Employee'")
	}

	managed, err := s.departments.FindByManager(ctx, actor.ID)
	if err != nil {
		return common.Internal(err)
	}
	managedIDs := make([]string, 0, len(managed))
	for _, d := range managed {
		managedIDs = append(managedIDs, d.ID)
	}
	for _, id := range req.DepartmentIDs {
		if !containsID(managedIDs, id) {
			return common.Validation("You can't send request create new members outside your department")
		}
	}

	claims := dto.RegistrationClaims{
		RequestedBy:      actor.ID,
		User:             req,
		RegisteredClaims: s.tokens.Registered(actor.ID, s.cfg.JWTRegistrationTTL),
	}
	token, err := s.tokens.Sign(claims, s.cfg.JWTRegistrationSecret)
	if err != nil {
		return common.Internal(err)
	}

	link := strings.TrimRight(s.cfg.FrontendURL, "/") + "/users/request-create?token=" + token
	msg, err := mailer.RegistrationRequest(s.cfg.AdminContact, actor.Name, req.Name, req.Email, link)
	if err != nil {
		return common.Internal(err)
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return common.Internal(err)
	}
	return nil
}

// PreviewRequest decodes a pending registration request
func (s *UserService) PreviewRequest(token string) (*dto.RegistrationClaims, error) {
	var claims dto.RegistrationClaims
	if err := s.tokens.Verify(stripTokenPrefix(token), s.cfg.JWTRegistrationSecret, &claims); err != nil {
		return nil, common.Validation("Invalid or expired token")
	}
	return &claims, nil
}

// AcceptRequest registers the user carried by a pending request
func (s *UserService) AcceptRequest(ctx context.Context, actor access.Actor, token string) (*models.User, error) {
	var claims dto.RegistrationClaims
	if err := s.tokens.Verify(stripTokenPrefix(token), s.cfg.JWTRegistrationSecret, &claims); err != nil {
		return nil, common.Validation("Invalid or expired token.")
	}
	return s.Register(ctx, actor, claims.User)
}

// RejectRequest drops a pending request. Nothing is stored, so it always succeeds.
func (s *UserService) RejectRequest(token string) string {
	var claims dto.RegistrationClaims
	if err := s.tokens.Decode(stripTokenPrefix(token), &claims); err != nil {
		s.log.WithError(err).Debug("Rejected registration token could not be decoded")
	}
	return "User creation request rejected."
}

// Profile returns the caller's own user record
func (s *UserService) Profile(ctx context.Context, actor access.Actor) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError(err, "Not found user")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, actor access.Actor) ([]models.User, error) {
	return s.resolver.List(ctx, actor)
}

func (s *UserService) Get(ctx context.Context, actor access.Actor, id string) (*models.User, error) {
	return s.resolver.Get(ctx, id, actor)
}

func (s *UserService) ListByDepartment(ctx context.Context, actor access.Actor, departmentID string) ([]models.User, error) {
	return s.resolver.ListByDepartment(ctx, departmentID, actor)
}

func (s *UserService) ListByProject(ctx context.Context, actor access.Actor, projectID string) ([]models.User, error) {
	return s.resolver.ListByProject(ctx, projectID, actor)
}

// ListByRole returns every user holding the role
func (s *UserService) ListByRole(ctx context.Context, roleID string) ([]models.User, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, storeError(err, "Not found role")
	}
	users, err := s.users.FindByRole(ctx, roleID)
	if err != nil {
		return nil, common.Internal(err)
	}
	return users, nil
}

// Update changes the provided fields of a user
func (s *UserService) Update(ctx context.Context, actor access.Actor, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, common.Internal(err)
		}
		if exists {
			return nil, common.Validation("Email already exists")
		}
		user.Email = *req.Email
	}
	if err := s.checkReferences(ctx, req.RoleID, req.DepartmentIDs, req.TechnologyIDs); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.CCCD != nil {
		user.CCCD = *req.CCCD
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.RoleID != nil {
		user.RoleID = *req.RoleID
	}
	if req.YearExp != nil {
		user.YearExp = *req.YearExp
	}
	if req.Certificates != nil {
		user.Certificates = datatypes.JSONSlice[models.Certificate](*req.Certificates)
	}
	if req.TechnologyIDs != nil {
		user.TechnologyIDs = pq.StringArray(uniqueIDs(req.TechnologyIDs))
	}
	if req.Languages != nil {
		user.Languages = pq.StringArray(req.Languages)
	}
	if req.DepartmentIDs != nil {
		user.DepartmentIDs = pq.StringArray(uniqueIDs(req.DepartmentIDs))
	}

	user.StampUpdate(actor.ID)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, common.Internal(err)
	}
	return user, nil
}

// Remove soft-deletes a user who manages no department and is on no project
func (s *UserService) Remove(ctx context.Context, actor access.Actor, id string) error {
	return guardedRemove(ctx, s.tx, id, actor.ID,
		s.guard.UserReferenced,
		"Cannot delete user with existing relations",
		"Not found user",
		s.users.MarkDeleted,
	)
}

func (s *UserService) checkReferences(ctx context.Context, roleID *string, departmentIDs, technologyIDs []string) error {
	if roleID != nil {
		if _, err := s.roles.FindByID(ctx, *roleID); err != nil {
			if errors.Is(err, common.ErrRecordNotFound) {
				return common.Validation("Role does not exist")
			}
			return common.Internal(err)
		}
	}
	if err := ensureExist(ctx, s.departments, uniqueIDs(departmentIDs), "One or more departments does not exist"); err != nil {
		return err
	}
	return ensureExist(ctx, s.technologies, uniqueIDs(technologyIDs), "One or more technologies does not exist")
}
