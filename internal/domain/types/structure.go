package types

// Landscape is the nested JSON form of a landscape as stored on disk and served
// by the relay. The in-memory model flattens it into an arena.
type Landscape struct {
	Token          LandscapeToken       `json:"landscapeToken"`
	Nodes          []StructureNode      `json:"nodes"`
	Communications []ClassCommunication `json:"classCommunications,omitempty"`
}

type StructureNode struct {
	ID           string                 `json:"id"`
	IPAddress    string                 `json:"ipAddress"`
	HostName     string                 `json:"hostName"`
	Applications []StructureApplication `json:"applications"`
}

type StructureApplication struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Language   string             `json:"language"`
	InstanceID string             `json:"instanceId"`
	Packages   []StructurePackage `json:"packages"`
}

type StructurePackage struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	SubPackages []StructurePackage `json:"subPackages,omitempty"`
	Classes     []StructureClass   `json:"classes,omitempty"`
}

type StructureClass struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Methods []Method `json:"methods,omitempty"`
}
