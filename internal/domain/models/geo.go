// internal/domain/models/geo.go
package models

// Province, District and Village are read-only reference data used to tag
// projects. Districts belong to a province; villages to a province+district.
type Province struct {
	Code  string `bson:"code" json:"code"`
	Name1 string `bson:"name_1" json:"name_1"`
}

type District struct {
	Code     string `bson:"code" json:"code"`
	Name1    string `bson:"name_1" json:"name_1"`
	Province string `bson:"province" json:"-"`
}

type Village struct {
	Code     string `bson:"code" json:"code"`
	Name1    string `bson:"name_1" json:"name_1"`
	Province string `bson:"province" json:"-"`
	District string `bson:"amper" json:"-"`
}
