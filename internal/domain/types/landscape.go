package types

// Node is a host running one or more applications.
type Node struct {
	ID             string   `json:"id"`
	IPAddress      string   `json:"ipAddress"`
	HostName       string   `json:"hostName"`
	ApplicationIDs []string `json:"applicationIds"`
}

// Application is a deployed program on a Node.
type Application struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Language   string   `json:"language"`
	InstanceID string   `json:"instanceId"`
	NodeID     string   `json:"nodeId"`
	PackageIDs []string `json:"packageIds"`
}

// Package groups sub-packages and classes. A top-level package carries the
// owning ApplicationID and an empty ParentID; a sub-package carries only
// ParentID.
type Package struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SubPackageIDs []string `json:"subPackageIds"`
	ClassIDs      []string `json:"classIds"`
	ParentID      string   `json:"parentId,omitempty"`
	ApplicationID string   `json:"applicationId,omitempty"`
}

// IsTopLevel reports whether the package sits directly under an application.
func (p *Package) IsTopLevel() bool { return p.ParentID == "" }

// ChildCount is the number of sub-packages plus classes.
func (p *Package) ChildCount() int { return len(p.SubPackageIDs) + len(p.ClassIDs) }

// Class is a leaf type inside a package.
type Class struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Methods   []Method `json:"methods"`
	PackageID string   `json:"packageId"`
}

// Method is an operation of a class.
type Method struct {
	Name string `json:"name"`
	Hash string `json:"hashCode"`
}

// CommunicationMetrics aggregates observed calls along a communication.
type CommunicationMetrics struct {
	RequestCount    int64   `json:"requestCount"`
	AverageDuration float64 `json:"averageResponseTime"`
}

// ClassCommunication is a directed call edge between two classes. It is not
// owned by the tree and must follow its classes through moves and copies.
type ClassCommunication struct {
	ID            string               `json:"id"`
	SourceClassID string               `json:"sourceClassId"`
	SourceAppID   string               `json:"sourceAppId"`
	TargetClassID string               `json:"targetClassId"`
	TargetAppID   string               `json:"targetAppId"`
	OperationName string               `json:"operationName"`
	Metrics       CommunicationMetrics `json:"metrics"`
	Recursive     bool                 `json:"isRecursive"`
	Bidirectional bool                 `json:"isBidirectional"`
}

// Touches reports whether the communication starts or ends at classID.
func (c *ClassCommunication) Touches(classID string) bool {
	return c.SourceClassID == classID || c.TargetClassID == classID
}
