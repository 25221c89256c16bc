package model

// Column limits. They must follow the size tags on the models.
const (
	MaxUserNameLen = 64
	MaxEmailLen    = 128
	MaxClubNameLen = 128
	MaxCategoryLen = 64
	MaxBannerLen   = 512
	MaxTitleLen    = 200
	MaxVenueLen    = 200
	MaxTimeLen     = 32

	// MaxTextBytes is the byte capacity of a MySQL TEXT column.
	MaxTextBytes = 65535
)
