// Copyright 2026 The KuiBa Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vardef declares the server's runtime parameters and the hooks they use.
package vardef

// Connection limits.
const (
	// Port is the TCP port the server listens on.
	Port = "port"
	// ListenAddresses is the comma separated list of addresses to listen on.
	ListenAddresses = "listen_addresses"
	// MaxConnections is the maximum number of concurrent connections.
	MaxConnections = "max_connections"
	// SuperuserReservedConnections is the number of slots kept for superusers.
	SuperuserReservedConnections = "superuser_reserved_connections"
	// AuthenticationTimeout bounds client authentication, in milliseconds.
	AuthenticationTimeout = "authentication_timeout"
	// TCPKeepalivesIdle is the idle time before TCP keepalives, in seconds.
	TCPKeepalivesIdle = "tcp_keepalives_idle"
	// DataDirectory is the data directory.
	DataDirectory = "data_directory"
)

// Cache sizes and buffer pool tuning.
const (
	ClogL1Size       = "clog_l1_size"
	ClogL2Size       = "clog_l2_size"
	RelCacheSize     = "rel_cache_size"
	CatalogCacheSize = "catalog_cache_size"
	SharedBuffers    = "shared_buffers"
	SBBucketCount    = "sb_bucket_count"
	SBMaxDirtyRatio  = "sb_max_dirty_ratio"
	BlockSize        = "block_size"
)

// Write ahead log.
const (
	WalBuffMaxSize             = "wal_buff_max_size"
	WalFileMaxSize             = "wal_file_max_size"
	SynchronousCommit          = "synchronous_commit"
	EnableWalCompression       = "enable_wal_compression"
	CheckpointTimeout          = "checkpoint_timeout"
	CheckpointCompletionTarget = "checkpoint_completion_target"
)

// Async runtime sizing and I/O concurrency depth.
const (
	TokioThreads            = "tokio_threads"
	TokioMaxBlockingThreads = "tokio_max_blocking_threads"
	TokioThreadStackSize    = "tokio_thread_stack_size"
	EffectiveIOConcurrency  = "effective_io_concurrency"
	IOUringDepth            = "io_uring_depth"
)

// Transaction id limits.
const (
	XidStopLimit = "xid_stop_limit"
	XidWarnLimit = "xid_warn_limit"
)

// Reported to clients whenever they change.
const (
	ServerVersion             = "server_version"
	ServerVersionNum          = "server_version_num"
	ServerEncoding            = "server_encoding"
	ClientEncoding            = "client_encoding"
	DateStyle                 = "DateStyle"
	TimeZone                  = "TimeZone"
	ApplicationName           = "application_name"
	IntegerDatetimes          = "integer_datetimes"
	StandardConformingStrings = "standard_conforming_strings"
	IsSuperuser               = "is_superuser"
)

// Session and planner knobs.
const (
	ClientMinMessages = "client_min_messages"
	LogMinMessages    = "log_min_messages"
	StatementTimeout  = "statement_timeout"
	LockTimeout       = "lock_timeout"
	SearchPath        = "search_path"
	ExtraFloatDigits  = "extra_float_digits"
	WorkMem           = "work_mem"
	RandomPageCost    = "random_page_cost"
	SeqPageCost       = "seq_page_cost"
	EnableSeqScan     = "enable_seqscan"
	EnableIndexScan   = "enable_indexscan"
)
