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

package vardef

import (
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/util/versioninfo"
)

const (
	typInt  = guc.TypeInt
	typBool = guc.TypeBool
	typReal = guc.TypeReal
	typStr  = guc.TypeStr

	internal   = guc.ContextInternal
	restart    = guc.ContextCompileTimeOnly
	reloadable = guc.ContextReloadableByAdmin
	session    = guc.ContextSessionSettable
)

// defaultSchema is the table of every variable the server understands.
var defaultSchema = []guc.SchemaEntry{
	// Connections.
	{Type: typInt, Name: Port, Context: restart, BootVal: "5432", Min: "1", Max: "65535",
		ShortDesc: "Sets the TCP port the server listens on."},
	{Type: typStr, Name: ListenAddresses, Context: restart, BootVal: "localhost",
		ShortDesc: "Sets the host name or IP address(es) to listen to."},
	{Type: typInt, Name: MaxConnections, Context: restart, BootVal: "100", Min: "1", Max: "256 * 1024",
		ShortDesc: "Sets the maximum number of concurrent connections."},
	{Type: typInt, Name: SuperuserReservedConnections, Context: restart, BootVal: "3", Min: "0", Max: "100",
		ShortDesc: "Sets the number of connection slots reserved for superusers."},
	{Type: typInt, Name: AuthenticationTimeout, Context: reloadable, BootVal: "60 * 1000", Min: "1000", Max: "600 * 1000",
		Show: ShowMilliseconds, ShortDesc: "Sets the maximum allowed time to complete client authentication."},
	{Type: typInt, Name: TCPKeepalivesIdle, Context: session, BootVal: "0", Min: "0", Max: "2147483647",
		ShortDesc: "Time between issuing TCP keepalives, in seconds.",
		LongDesc:  "A value of 0 uses the system default."},
	{Type: typStr, Name: DataDirectory, Context: restart, BootVal: "kuiba_data",
		ShortDesc: "Sets the server's data directory."},

	// Caches and the shared buffer pool.
	{Type: typInt, Name: ClogL1Size, Context: restart, BootVal: "32", Min: "1", Max: "1024",
		Preassign: CheckPowerOfTwo, ShortDesc: "Number of commit log pages cached per backend."},
	{Type: typInt, Name: ClogL2Size, Context: restart, BootVal: "128", Min: "1", Max: "64 * 1024",
		Preassign: CheckPowerOfTwo, ShortDesc: "Number of commit log pages cached in shared memory."},
	{Type: typInt, Name: RelCacheSize, Context: restart, BootVal: "1024", Min: "16", Max: "1024 * 1024",
		ShortDesc: "Number of relation descriptors kept in the relation cache."},
	{Type: typInt, Name: CatalogCacheSize, Context: restart, BootVal: "2048", Min: "16", Max: "1024 * 1024",
		ShortDesc: "Number of catalog tuples kept in the catalog cache."},
	{Type: typInt, Name: SharedBuffers, Context: restart, BootVal: "128 * 1024 * 1024", Min: "128 * 1024", Max: "64 * 1024 * 1024 * 1024",
		Show: ShowBytes, ShortDesc: "Sets the size of the shared buffer pool."},
	{Type: typInt, Name: SBBucketCount, Context: restart, BootVal: "16 * 1024", Min: "16", Max: "1024 * 1024 * 1024",
		Preassign: CheckPowerOfTwo, ShortDesc: "Number of hash buckets of the shared buffer mapping table."},
	{Type: typReal, Name: SBMaxDirtyRatio, Context: reloadable, BootVal: "0.8", Min: "0", Max: "1",
		ShortDesc: "Fraction of dirty shared buffers that triggers a background flush."},
	{Type: typInt, Name: BlockSize, Context: internal, BootVal: "8 * 1024",
		Show: ShowBytes, ShortDesc: "Shows the size of a disk block."},

	// Write ahead log.
	{Type: typInt, Name: WalBuffMaxSize, Context: restart, BootVal: "2 * 1024 * 1024", Min: "64 * 1024", Max: "1024 * 1024 * 1024",
		Show: ShowBytes, ShortDesc: "Sets the size of the WAL write buffer."},
	{Type: typInt, Name: WalFileMaxSize, Context: restart, BootVal: "16 * 1024 * 1024",
		Preassign: CheckWalFileSize, Show: ShowBytes, ShortDesc: "Sets the size of one WAL segment file.",
		LongDesc: "Must be a power of two between 1MiB and 1GiB."},
	{Type: typBool, Name: SynchronousCommit, Context: session, BootVal: "true",
		ShortDesc: "Waits for the WAL to be flushed before reporting a commit."},
	{Type: typBool, Name: EnableWalCompression, Context: reloadable, BootVal: "false",
		ShortDesc: "Compresses full page images written to the WAL."},
	{Type: typInt, Name: CheckpointTimeout, Context: reloadable, BootVal: "300 * 1000", Min: "30 * 1000", Max: "86400 * 1000",
		Show: ShowMilliseconds, ShortDesc: "Sets the maximum time between automatic checkpoints."},
	{Type: typReal, Name: CheckpointCompletionTarget, Context: reloadable, BootVal: "0.5", Min: "0", Max: "1",
		ShortDesc: "Time spent flushing dirty buffers during a checkpoint, as a fraction of the checkpoint interval."},

	// Async runtime and I/O.
	{Type: typInt, Name: TokioThreads, Context: restart, BootVal: "4", Min: "1", Max: "1024",
		ShortDesc: "Number of worker threads of the async runtime."},
	{Type: typInt, Name: TokioMaxBlockingThreads, Context: restart, BootVal: "512", Min: "1", Max: "64 * 1024",
		ShortDesc: "Maximum number of threads the async runtime spawns for blocking work."},
	{Type: typInt, Name: TokioThreadStackSize, Context: restart, BootVal: "2 * 1024 * 1024", Min: "64 * 1024", Max: "1024 * 1024 * 1024",
		Show: ShowBytes, ShortDesc: "Stack size of the async runtime threads."},
	{Type: typInt, Name: EffectiveIOConcurrency, Context: session, BootVal: "1", Min: "0", Max: "1000",
		Preassign: AssignIOConcurrency, ShortDesc: "Number of simultaneous requests that can be handled efficiently by the disk subsystem."},
	{Type: typInt, Name: IOUringDepth, Context: restart, BootVal: "128", Min: "1", Max: "32 * 1024",
		Preassign: CheckPowerOfTwo, ShortDesc: "Submission queue depth of each io_uring instance."},

	// Transaction id wraparound protection.
	{Type: typInt, Name: XidStopLimit, Context: reloadable, BootVal: "1000 * 1000", Min: "1000", Max: "1000 * 1000 * 1000",
		ShortDesc: "Remaining transaction ids at which new transactions are refused."},
	{Type: typInt, Name: XidWarnLimit, Context: reloadable, BootVal: "10 * 1000 * 1000", Min: "1000", Max: "1000 * 1000 * 1000",
		ShortDesc: "Remaining transaction ids at which warnings are emitted."},

	// Reported to clients.
	{Type: typStr, Name: ServerVersion, Context: internal, BootVal: versioninfo.KuiBaReleaseVersion, Flags: guc.FlagReport,
		ShortDesc: "Shows the server version."},
	{Type: typInt, Name: ServerVersionNum, Context: internal, BootVal: "100", Flags: guc.FlagReport,
		ShortDesc: "Shows the server version as an integer."},
	{Type: typStr, Name: ServerEncoding, Context: internal, BootVal: "UTF8", Flags: guc.FlagReport,
		ShortDesc: "Shows the server (database) character set encoding."},
	{Type: typStr, Name: ClientEncoding, Context: session, BootVal: "UTF8", Flags: guc.FlagReport,
		Preassign: CheckClientEncoding, ShortDesc: "Sets the client's character set encoding."},
	{Type: typStr, Name: DateStyle, Context: session, BootVal: "ISO, MDY", Flags: guc.FlagReport,
		Preassign: CheckDateStyle, ShortDesc: "Sets the display format for date and time values.",
		LongDesc: "Also controls interpretation of ambiguous date inputs."},
	{Type: typStr, Name: TimeZone, Context: session, BootVal: "UTC", Flags: guc.FlagReport,
		Preassign: CheckTimeZone, ShortDesc: "Sets the time zone for displaying and interpreting time stamps."},
	{Type: typStr, Name: ApplicationName, Context: session, BootVal: "", Flags: guc.FlagReport,
		Preassign: CheckApplicationName, ShortDesc: "Sets the application name to be reported in statistics and logs."},
	{Type: typBool, Name: IntegerDatetimes, Context: internal, BootVal: "true", Flags: guc.FlagReport,
		ShortDesc: "Shows whether datetimes are integer based."},
	{Type: typBool, Name: StandardConformingStrings, Context: session, BootVal: "true", Flags: guc.FlagReport,
		ShortDesc: "Causes '...' strings to treat backslashes literally."},
	{Type: typBool, Name: IsSuperuser, Context: internal, BootVal: "false", Flags: guc.FlagReport | guc.FlagNoShowAll,
		ShortDesc: "Shows whether the current user is a superuser."},

	// Session behaviour and the planner.
	{Type: typStr, Name: ClientMinMessages, Context: session, BootVal: "notice",
		Preassign: CheckMessageLevel, ShortDesc: "Sets the message levels that are sent to the client."},
	{Type: typStr, Name: LogMinMessages, Context: reloadable, BootVal: "warning",
		Preassign: CheckMessageLevel, ShortDesc: "Sets the message levels that are logged."},
	{Type: typInt, Name: StatementTimeout, Context: session, BootVal: "0", Min: "0", Max: "2147483647",
		Show: ShowMilliseconds, ShortDesc: "Sets the maximum allowed duration of any statement.",
		LongDesc: "A value of 0 turns off the timeout."},
	{Type: typInt, Name: LockTimeout, Context: session, BootVal: "0", Min: "0", Max: "2147483647",
		Show: ShowMilliseconds, ShortDesc: "Sets the maximum allowed duration of any wait for a lock.",
		LongDesc: "A value of 0 turns off the timeout."},
	{Type: typStr, Name: SearchPath, Context: session, BootVal: `"$user", public`,
		ShortDesc: "Sets the schema search order for names that are not schema-qualified."},
	{Type: typInt, Name: ExtraFloatDigits, Context: session, BootVal: "1", Min: "-15", Max: "3",
		ShortDesc: "Sets the number of digits displayed for floating-point values."},
	{Type: typInt, Name: WorkMem, Context: session, BootVal: "4 * 1024 * 1024", Min: "64 * 1024", Max: "2 * 1024 * 1024 * 1024",
		Show: ShowBytes, ShortDesc: "Sets the maximum memory to be used for query workspaces."},
	{Type: typReal, Name: RandomPageCost, Context: session, BootVal: "4.0", Min: "0",
		ShortDesc: "Sets the planner's estimate of the cost of a nonsequentially fetched disk page."},
	{Type: typReal, Name: SeqPageCost, Context: session, BootVal: "1.0", Min: "0",
		ShortDesc: "Sets the planner's estimate of the cost of a sequentially fetched disk page."},
	{Type: typBool, Name: EnableSeqScan, Context: session, BootVal: "true",
		ShortDesc: "Enables the planner's use of sequential-scan plans."},
	{Type: typBool, Name: EnableIndexScan, Context: session, BootVal: "true",
		ShortDesc: "Enables the planner's use of index-scan plans."},
}

// Schema returns a copy of the built-in schema.
func Schema() []guc.SchemaEntry {
	out := make([]guc.SchemaEntry, len(defaultSchema))
	copy(out, defaultSchema)
	return out
}

// NewCatalog builds the catalog of the built-in schema.
func NewCatalog() (*guc.Catalog, error) {
	return guc.NewCatalog(Schema(), Hooks())
}

// NewStore builds the catalog and seeds a store with the boot values.
func NewStore() (*guc.Store, error) {
	c, err := NewCatalog()
	if err != nil {
		return nil, err
	}
	return guc.NewStore(c)
}
