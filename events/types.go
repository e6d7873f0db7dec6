package events

// RefreshExplorer 请求刷新某个目录在文件树中的镜像
type RefreshExplorer struct {
	Path string
}

// FileDeleted 文件或目录已经从文件树中移除
type FileDeleted struct {
	Path string
}

// FileSaved 文件已经写入磁盘
type FileSaved struct {
	Path string
}

// ProjectChanged 工作区打开或关闭了项目
type ProjectChanged struct {
	Category string
	Project  string
	Opened   bool
}

// Hub 工作区使用的全部事件，由调用方创建并注入，不存在全局实例
type Hub struct {
	Refresh *Bus[RefreshExplorer]
	Deleted *Bus[FileDeleted]
	Saved   *Bus[FileSaved]
	Project *Bus[ProjectChanged]
}

func NewHub() *Hub {
	return &Hub{
		Refresh: NewBus[RefreshExplorer](),
		Deleted: NewBus[FileDeleted](),
		Saved:   NewBus[FileSaved](),
		Project: NewBus[ProjectChanged](),
	}
}
