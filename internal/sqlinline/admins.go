package sqlinline

const QSelectAdminByUsername = `--sql 37ab2463-2c9e-42db-ac0a-97adac609cb1
select id::text, username, password_hash, role, created_at, updated_at, last_login_at
from admins
where lower(username) = lower($1::text);
`

const QListAdmins = `--sql 2ae94057-71b8-4caa-9b50-93f7bd31fda8
select id::text, username, password_hash, role, created_at, updated_at, last_login_at
from admins
order by created_at asc, username asc;
`

const QInsertAdmin = `--sql a934829c-4bb5-4399-8c05-a63f99fe17d9
insert into admins(id, username, password_hash, role, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, now(), now())
on conflict do nothing
returning created_at;
`

const QUpdateAdminCredentials = `--sql db4415cb-7ee6-4da6-8366-00ca6f5b8969
update admins set
    username = $2::text,
    password_hash = $3::text,
    updated_at = now()
where id = $1::uuid;
`

const QTouchAdminLogin = `--sql 9b09e97a-3e77-45be-a642-59962bb59819
update admins set last_login_at = now() where id = $1::uuid;
`
