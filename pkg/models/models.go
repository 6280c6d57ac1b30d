package models

// Domain models matching the database schema in db/migrations/0001_init.sql

type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" validate:"required"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	Updated      int64  `json:"updated" db:"updated"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Status is a pipeline stage (a board column) owned by one user.
type Status struct {
	ID     int64  `json:"id" db:"id"`
	UserID int64  `json:"-" db:"user_id"`
	Title  string `json:"title" db:"title"`
	Order  int64  `json:"order" db:"sort_order"`
}

// Application is a single job application (a board card).
type Application struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"-" db:"user_id"`
	Company     string `json:"company" db:"company"`
	Position    string `json:"position" db:"position"`
	StageID     int64  `json:"stageId" db:"status_id"`
	Deadline    string `json:"deadline,omitempty" db:"deadline"`
	DateApplied string `json:"dateApplied,omitempty" db:"date_applied"`
	Location    string `json:"location,omitempty" db:"location"`
	URL         string `json:"url,omitempty" db:"url"`
	Notes       string `json:"notes,omitempty" db:"notes"`
	Salary      string `json:"salary,omitempty" db:"salary"`
	Color       string `json:"color,omitempty" db:"color"`
	CompanyLogo string `json:"companyLogo,omitempty" db:"company_logo"`
	Favourite   bool   `json:"favourite" db:"favourite"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}

// ApplicationPatch carries a partial update. A nil field keeps the stored
// value; an explicit JSON null decodes to nil as well.
type ApplicationPatch struct {
	Company     *string `json:"company,omitempty"`
	Position    *string `json:"position,omitempty"`
	StageID     *int64  `json:"stageId,omitempty"`
	StageName   *string `json:"stageName,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	DateApplied *string `json:"dateApplied,omitempty"`
	Location    *string `json:"location,omitempty"`
	URL         *string `json:"url,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Salary      *string `json:"salary,omitempty"`
	Color       *string `json:"color,omitempty"`
	CompanyLogo *string `json:"companyLogo,omitempty"`
	Favourite   *bool   `json:"favourite,omitempty"`
}

type FileType struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// File is the metadata row of a document kept in the object store.
type File struct {
	ID             int64   `json:"id" db:"id"`
	UserID         int64   `json:"userId" db:"user_id"`
	TypeID         int64   `json:"typeId" db:"type_id"`
	URL            string  `json:"url" db:"url"`
	Name           string  `json:"name" db:"name"`
	Extension      string  `json:"extension" db:"extension"`
	Description    string  `json:"description" db:"description"`
	ApplicationIDs []int64 `json:"applicationIds"`
	Created        int64   `json:"created" db:"created"`
}

// FileApplicationLink is one bridge row between a file and an application.
type FileApplicationLink struct {
	FileID        int64 `json:"fileId" db:"file_id"`
	ApplicationID int64 `json:"applicationId" db:"application_id"`
}

// Links returns the bridge rows implied by the file's ApplicationIDs.
func (f File) Links() []FileApplicationLink {
	out := make([]FileApplicationLink, len(f.ApplicationIDs))
	for i, appID := range f.ApplicationIDs {
		out[i] = FileApplicationLink{FileID: f.ID, ApplicationID: appID}
	}
	return out
}

// FilePatch updates file metadata. ApplicationIDs, when non-nil, replaces the
// whole link set of the file (an empty slice detaches everything).
type FilePatch struct {
	TypeID         *int64   `json:"typeId,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	ApplicationIDs *[]int64 `json:"applicationIds,omitempty"`
}
