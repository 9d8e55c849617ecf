package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initGormDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			clearSeedData(db)
		}

		deptID := ensureDepartment(db, "Engineering", "ENG", "Engineering department")

		permissions := []struct {
			Name        string
			DisplayName string
			Resource    string
			Action      string
		}{
			{"manage_users", "Manage Users", "users", "manage"},
			{"manage_roles", "Manage Roles", "roles", "manage"},
			{"manage_forms", "Manage Forms", "forms", "manage"},
			{"view_forms", "View Forms", "forms", "view"},
			{"submit_forms", "Submit Forms", "forms", "submit"},
			{"view_audit_log", "View Audit Log", "audit", "view"},
			{"manage_webhooks", "Manage Webhooks", "webhooks", "manage"},
		}

		permIDs := make(map[string]uuid.UUID, len(permissions))
		for _, p := range permissions {
			permIDs[p.Name] = ensurePermission(db, deptID, p.Name, p.DisplayName, p.Resource, p.Action)
		}

		adminRoleID := ensureRole(db, deptID, "department_admin", "Department Admin", true)
		for _, p := range permissions {
			ensureRolePermission(db, adminRoleID, permIDs[p.Name])
		}

		editorRoleID := ensureRole(db, deptID, "form_editor", "Form Editor", false)
		for _, name := range []string{"manage_forms", "view_forms", "submit_forms"} {
			ensureRolePermission(db, editorRoleID, permIDs[name])
		}

		viewerRoleID := ensureRole(db, deptID, "viewer", "Viewer", false)
		ensureRolePermission(db, viewerRoleID, permIDs["view_forms"])

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		adminID := ensureUser(db, deptID, "admin@example.com", "Department Admin", string(hash), &adminRoleID)
		memberID := ensureUser(db, deptID, "member@example.com", "Member", string(hash), &viewerRoleID)

		// members submit forms through a direct grant rather than a role
		ensureDirectGrant(db, memberID, permIDs["submit_forms"], &adminID)

		fmt.Println("Seed complete: department ENG with admin@example.com and member@example.com (password: password)")
	},
}

func clearSeedData(db *gorm.DB) {
	tables := []string{
		"audit_logs",
		"form_permissions",
		"form_submissions",
		"form_schema_versions",
		"forms",
		"webhook_endpoints",
		"user_permissions",
		"role_permissions",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	if err := db.Exec("UPDATE users SET role_id = NULL").Error; err != nil {
		log.Fatalf("failed to detach user roles: %v", err)
	}
	for _, table := range []string{"users", "roles", "permissions", "departments"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func ensureDepartment(db *gorm.DB, name, code, description string) uuid.UUID {
	var id uuid.UUID
	row := db.Raw("SELECT id FROM departments WHERE code = ?", code).Row()
	if err := row.Scan(&id); err == nil {
		return id
	}

	id = uuid.New()
	if err := db.Exec(
		"INSERT INTO departments (id, name, description, code, created_at) VALUES (?, ?, ?, ?, now())",
		id, name, description, code).Error; err != nil {
		log.Fatalf("failed to insert department %s: %v", name, err)
	}
	fmt.Println("Seeded department:", name)
	return id
}

func ensurePermission(db *gorm.DB, departmentID uuid.UUID, name, displayName, resource, action string) uuid.UUID {
	var id uuid.UUID
	row := db.Raw("SELECT id FROM permissions WHERE department_id = ? AND name = ?", departmentID, name).Row()
	if err := row.Scan(&id); err == nil {
		return id
	}

	id = uuid.New()
	if err := db.Exec(
		"INSERT INTO permissions (id, department_id, name, display_name, resource, action, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, true, now())",
		id, departmentID, name, displayName, resource, action).Error; err != nil {
		log.Fatalf("failed to insert permission %s: %v", name, err)
	}
	return id
}

func ensureRole(db *gorm.DB, departmentID uuid.UUID, name, displayName string, system bool) uuid.UUID {
	var id uuid.UUID
	row := db.Raw("SELECT id FROM roles WHERE department_id = ? AND name = ?", departmentID, name).Row()
	if err := row.Scan(&id); err == nil {
		return id
	}

	id = uuid.New()
	if err := db.Exec(
		"INSERT INTO roles (id, department_id, name, display_name, is_system_role, is_active, created_at) VALUES (?, ?, ?, ?, ?, true, now())",
		id, departmentID, name, displayName, system).Error; err != nil {
		log.Fatalf("failed to insert role %s: %v", name, err)
	}
	fmt.Println("Seeded role:", name)
	return id
}

func ensureRolePermission(db *gorm.DB, roleID, permissionID uuid.UUID) {
	var exists int
	row := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", roleID, permissionID).Row()
	if err := row.Scan(&exists); err == nil {
		return
	}

	if err := db.Exec(
		"INSERT INTO role_permissions (id, role_id, permission_id, created_at) VALUES (?, ?, ?, now())",
		uuid.New(), roleID, permissionID).Error; err != nil {
		log.Fatalf("failed to bind permission to role: %v", err)
	}
}

func ensureUser(db *gorm.DB, departmentID uuid.UUID, email, name, passwordHash string, roleID *uuid.UUID) uuid.UUID {
	var id uuid.UUID
	row := db.Raw("SELECT id FROM users WHERE email = ?", email).Row()
	if err := row.Scan(&id); err == nil {
		fmt.Println("user already exists:", email)
		return id
	}

	id = uuid.New()
	if err := db.Exec(
		"INSERT INTO users (id, department_id, email, name, password_hash, role_id, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, true, now())",
		id, departmentID, email, name, passwordHash, roleID).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
	return id
}

func ensureDirectGrant(db *gorm.DB, userID, permissionID uuid.UUID, grantedBy *uuid.UUID) {
	var exists int
	row := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", userID, permissionID).Row()
	if err := row.Scan(&exists); err == nil {
		return
	}

	if err := db.Exec(
		"INSERT INTO user_permissions (id, user_id, permission_id, granted_by, created_at) VALUES (?, ?, ?, ?, now())",
		uuid.New(), userID, permissionID, grantedBy).Error; err != nil {
		log.Fatalf("failed to grant permission to user: %v", err)
	}
}
